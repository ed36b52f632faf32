package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/catalog"
	"github.com/mesh-intelligence/storefront/pkg/crud"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// productFields holds the flag values shared by create and update.
type productFields struct {
	name        string
	description string
	price       float64
	stock       int
}

func (f *productFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "unit price")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
}

// changes returns only the fields whose flags were set, keyed by JSON name.
func (f *productFields) changes(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("name") {
		out["name"] = f.name
	}
	if flags.Changed("description") {
		out["description"] = f.description
	}
	if flags.Changed("price") {
		out["price"] = f.price
	}
	if flags.Changed("stock") {
		out["stock"] = f.stock
	}
	return out
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products through the storefront API",
	}
	cmd.AddCommand(
		newProductsListCmd(a),
		newProductsGetCmd(a),
		newProductsCreateCmd(a),
		newProductsUpdateCmd(a),
		newProductsDeleteCmd(a),
		newProductsRestockCmd(a),
	)
	return cmd
}

func newProductsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := catalog.NewProductFacade(a.productService(), a.logger)
			notice := f.Compute(cmd.Context(), catalog.Load())
			resp := types.Response[[]types.Product]{
				Status:  notice.Status,
				Code:    notice.Code,
				Message: notice.Message,
			}
			if notice.OK() {
				resp.Payload = f.Data().Get()
			}
			return report(a, cmd, resp, func() error {
				return renderProducts(cmd.OutOrStdout(), resp.Payload)
			})
		},
	}
}

func newProductsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp := a.productService().ReadOne(cmd.Context(), id)
			return a.reportOne(cmd, resp)
		},
	}
}

func newProductsCreateCmd(a *app) *cobra.Command {
	var fields productFields
	cmd := &cobra.Command{
		Use:   "create --name <name> [--price N] [--stock N] [--description text]",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields.name == "" {
				return userError("--name is required")
			}
			p := types.Product{
				Name:        fields.name,
				Description: fields.description,
				Price:       fields.price,
				Stock:       fields.stock,
			}
			if err := p.Validate(); err != nil {
				return userError("invalid product: %w", err)
			}
			resp := a.productService().Create(cmd.Context(), p)
			return a.reportOne(cmd, resp)
		},
	}
	fields.register(cmd)
	return cmd
}

func newProductsUpdateCmd(a *app) *cobra.Command {
	var fields productFields
	cmd := &cobra.Command{
		Use:   "update <id> [--name N] [--price N] [--stock N] [--description text]",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			changes := fields.changes(cmd)
			if len(changes) == 0 {
				return userError("nothing to update: set at least one of --name, --description, --price, --stock")
			}

			svc := a.productService()
			current := svc.ReadOne(cmd.Context(), id)
			if !current.OK() {
				return a.reportOne(cmd, current)
			}
			resp := svc.Update(cmd.Context(), *current.Payload, changes)
			return a.reportOne(cmd, resp)
		},
	}
	fields.register(cmd)
	return cmd
}

func newProductsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp := a.productService().Delete(cmd.Context(), types.Product{ID: id})
			return a.reportOne(cmd, resp)
		},
	}
}

func newProductsRestockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restock <id> <delta>",
		Short: "Add (or with a negative delta, remove) units of stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return userError("invalid delta %q", args[1])
			}

			svc := a.productService()
			current := svc.ReadOne(cmd.Context(), id)
			if !current.OK() {
				return a.reportOne(cmd, current)
			}
			p := *current.Payload
			if err := p.Restock(delta); err != nil {
				return userError("cannot restock product %d by %d: only %d in stock", id, delta, p.Stock)
			}
			resp := svc.Update(cmd.Context(), *current.Payload, map[string]any{"stock": p.Stock})
			return a.reportOne(cmd, resp)
		},
	}
}

// productService builds the client from the loaded configuration.
func (a *app) productService() *catalog.ProductService {
	return catalog.NewProductService(
		a.config.GetString(cfgKeyAPIURL),
		crud.WithTimeout(a.config.GetDuration(cfgKeyTimeout)),
		crud.WithLogger(crud.NewZapLogger(a.logger)),
	)
}

func (a *app) reportOne(cmd *cobra.Command, resp types.Response[*types.Product]) error {
	return report(a, cmd, resp, func() error {
		return renderProduct(cmd.OutOrStdout(), resp.Payload)
	})
}

// report prints resp as JSON in --json mode and through render otherwise.
// Error envelopes become user errors carrying the envelope message.
func report[P any](a *app, cmd *cobra.Command, resp types.Response[P], render func() error) error {
	if a.flags.jsonMode {
		if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
			return sysError("write output: %w", err)
		}
	} else if resp.OK() {
		if err := render(); err != nil {
			return sysError("write output: %w", err)
		}
	}
	if !resp.OK() {
		return userError("%s (%s)", resp.Message, resp.Code)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, userError("invalid product id %q", arg)
	}
	return id, nil
}
