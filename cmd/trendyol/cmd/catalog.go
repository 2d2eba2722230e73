package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

var (
	categoryColumns  = []column{{"ID", "id"}, {"NAME", "name"}, {"PARENT", "parentId"}}
	attributeColumns = []column{
		{"ID", "attribute.id"},
		{"NAME", "attribute.name"},
		{"REQUIRED", "required"},
		{"CUSTOM", "allowCustom"},
	}
	brandColumns    = []column{{"ID", "id"}, {"NAME", "name"}}
	providerColumns = []column{{"ID", "id"}, {"CODE", "code"}, {"NAME", "name"}, {"TAX NUMBER", "taxNumber"}}
	addressColumns  = []column{
		{"ID", "id"},
		{"TYPE", "addressType"},
		{"CITY", "city"},
		{"DISTRICT", "district"},
		{"DEFAULT", "isDefault"},
	}
)

func categoriesCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "categories",
		Short: "Browse the category tree",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
				page, err := a.client.Categories().List(a.ctx(cmd.Context()))
				if err != nil {
					return err
				}
				if a.json {
					return outputJSON(a.out, page)
				}
				return printPage(a.out, categoryColumns, page)
			}),
		},
		getCmd(o, "get <id>", "Show one category",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Categories().Get(ctx, id)
			}),
		&cobra.Command{
			Use:   "attributes <id>",
			Short: "List the attributes products in a category must carry",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
				page, err := a.client.Categories().Attributes(a.ctx(cmd.Context()), args[0])
				if err != nil {
					return err
				}
				if a.json {
					return outputJSON(a.out, page)
				}
				return printPage(a.out, attributeColumns, page)
			}),
		},
	)

	return root
}

func brandsCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "brands",
		Short: "Browse the brand directory",
	}

	root.AddCommand(
		listCmd(o, "List brands", brandColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Brands().List(ctx, f)
			}),
		&cobra.Command{
			Use:   "search <name>",
			Short: "Find brands by name",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
				res, err := a.client.Brands().SearchByName(a.ctx(cmd.Context()), args[0])
				if err != nil {
					return err
				}
				return a.print(brandColumns, res)
			}),
		},
	)

	return root
}

func shipmentProvidersCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "shipment-providers",
		Aliases: []string{"carriers"},
		Short:   "List cargo providers",
		Args:    cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			res, err := a.client.ShipmentProviders().List(a.ctx(cmd.Context()))
			if err != nil {
				return err
			}
			return a.print(providerColumns, res)
		}),
	}
}

func addressesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List the supplier's shipment and return addresses",
		Args:  cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			res, err := a.client.Addresses().List(a.ctx(cmd.Context()))
			if err != nil {
				return err
			}
			return a.print(addressColumns, res)
		}),
	}
}
