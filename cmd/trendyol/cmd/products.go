package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

var productColumns = []column{
	{"ID", "id"},
	{"BARCODE", "barcode"},
	{"TITLE", "title"},
	{"QTY", "quantity"},
	{"SALE PRICE", "salePrice"},
	{"LIST PRICE", "listPrice"},
	{"APPROVED", "approved"},
}

func productsCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}

	root.AddCommand(
		listCmd(o, "List products", productColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Products().List(ctx, f)
			}),
		getCmd(o, "get <id>", "Show one product",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Products().Get(ctx, id)
			}),
		productsCreateCmd(o),
		productsStockCmd(o),
		productsDeleteCmd(o),
	)

	return root
}

func productsCreateCmd(o *rootOptions) *cobra.Command {
	var (
		file   string
		update bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or update products from a JSON file",
		Long: "Submit the products in a JSON file, either one object or an array of\n" +
			"objects, as a single batch. The API answers with a batch request ID.",
		Example: `  # Create products
  trendyol products create --file products.json

  # Update existing products
  trendyol products create --file products.json --update`,
		Args: cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			items, err := readItems(file)
			if err != nil {
				return err
			}

			var res trendyol.Result
			if update {
				res, err = a.client.Products().UpdateBatch(cmd.Context(), items)
			} else {
				res, err = a.client.Products().CreateBatch(cmd.Context(), items)
			}
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with one product or an array of products")
	cmd.Flags().BoolVar(&update, "update", false, "update existing products instead of creating")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))

	return cmd
}

func productsStockCmd(o *rootOptions) *cobra.Command {
	var (
		quantity  int
		salePrice float64
		listPrice float64
	)

	cmd := &cobra.Command{
		Use:   "stock <barcode>",
		Short: "Update price and inventory for one barcode",
		Example: `  trendyol products stock 8680000000011 --quantity 40 --sale-price 139.90
  trendyol products stock 8680000000011 --quantity 40 --sale-price 139.90 --list-price 199.90`,
		Args: cobra.ExactArgs(1),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			var list *float64
			if cmd.Flags().Changed("list-price") {
				list = &listPrice
			}
			res, err := a.client.Products().UpdatePriceAndStock(cmd.Context(), args[0], quantity, salePrice, list)
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}

	cmd.Flags().IntVar(&quantity, "quantity", 0, "stock quantity")
	cmd.Flags().Float64Var(&salePrice, "sale-price", 0, "sale price")
	cmd.Flags().Float64Var(&listPrice, "list-price", 0, "list price (left unchanged when omitted)")
	cobra.CheckErr(cmd.MarkFlagRequired("quantity"))
	cobra.CheckErr(cmd.MarkFlagRequired("sale-price"))

	return cmd
}

func productsDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <barcode>",
		Short: "Delete a product by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.client.Products().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}
}

// readItems reads a JSON object or array of objects from path.
func readItems(path string) ([]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return nil, fmt.Errorf("%s holds no items", path)
		}
		return t, nil
	case map[string]any:
		return []any{t}, nil
	default:
		return nil, fmt.Errorf("%s must hold a JSON object or array", path)
	}
}
