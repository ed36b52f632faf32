// Package catalog wires the product feature: a CRUD service for the
// products endpoint and the facade that holds the product list.
package catalog

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/pkg/crud"
	"github.com/mesh-intelligence/storefront/pkg/facade"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// EntityName is interpolated into envelope messages.
const EntityName = "Product"

// Product mutation types.
const (
	LoadProducts  = "LOAD_PRODUCTS"
	FetchProduct  = "FETCH_PRODUCT"
	AddProduct    = "ADD_PRODUCT"
	UpdateProduct = "UPDATE_PRODUCT"
	RemoveProduct = "REMOVE_PRODUCT"
)

// ProductService is the CRUD service for products.
type ProductService = crud.Service[types.Product, int64]

// ProductFacade holds the product list.
type ProductFacade = facade.Collection[types.Product, int64]

// ProductsURL joins an API base URL and the products path.
func ProductsURL(apiURL string) string {
	return strings.TrimRight(apiURL, "/") + "/" + types.TableProducts
}

// NewProductService creates the products service rooted at apiURL.
func NewProductService(apiURL string, opts ...crud.Option) *ProductService {
	return crud.NewService[types.Product, int64](ProductsURL(apiURL), EntityName, opts...)
}

// NewProductFacade creates the product list facade over service.
func NewProductFacade(service types.CrudConsumer[types.Product, int64], logger *zap.Logger) *ProductFacade {
	return facade.NewCollection[types.Product, int64](service, facade.MutationTypes{
		Load:   LoadProducts,
		Fetch:  FetchProduct,
		Add:    AddProduct,
		Update: UpdateProduct,
		Remove: RemoveProduct,
	}, logger)
}

// Load returns the mutation that reloads the product list.
func Load() facade.Mutation {
	return facade.Mutation{Type: LoadProducts}
}

// Fetch returns the mutation that refreshes a single product.
func Fetch(id int64) facade.Mutation {
	return facade.Mutation{Type: FetchProduct, Payload: id}
}

// Add returns the mutation that creates p.
func Add(p types.Product) facade.Mutation {
	return facade.Mutation{Type: AddProduct, Payload: p}
}

// Update returns the mutation that sends changes for target.
func Update(target types.Product, changes any) facade.Mutation {
	return facade.Mutation{
		Type:    UpdateProduct,
		Payload: facade.Change[types.Product]{Target: target, Changes: changes},
	}
}

// Remove returns the mutation that deletes p.
func Remove(p types.Product) facade.Mutation {
	return facade.Mutation{Type: RemoveProduct, Payload: p}
}
