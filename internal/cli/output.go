package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderProducts writes products as a table.
func renderProducts(w io.Writer, products []types.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Price", "Stock", "Description")
	for _, p := range products {
		if err := table.Append(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			formatPrice(p.Price),
			strconv.Itoa(p.Stock),
			p.Description,
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal products: %d\n", len(products))
	return err
}

// renderProduct writes one product as a property/value table.
func renderProduct(w io.Writer, p *types.Product) error {
	if p == nil {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	rows := [][]string{
		{"ID", strconv.FormatInt(p.ID, 10)},
		{"Name", p.Name},
		{"Description", p.Description},
		{"Price", formatPrice(p.Price)},
		{"Stock", strconv.Itoa(p.Stock)},
		{"Created", p.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Updated", p.UpdatedAt.Format("2006-01-02 15:04:05")},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
