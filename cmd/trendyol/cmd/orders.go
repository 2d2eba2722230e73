package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

var orderColumns = []column{
	{"ORDER", "orderNumber"},
	{"PACKAGE", "shipmentPackageId"},
	{"STATUS", "status"},
	{"CUSTOMER", "customerFirstName"},
	{"TOTAL", "totalPrice"},
}

func ordersCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "orders",
		Short: "Inspect orders and shipment packages",
	}

	root.AddCommand(
		listCmd(o, "List orders", orderColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Orders().List(ctx, f)
			}),
		getCmd(o, "get <id>", "Show one order",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Orders().Get(ctx, id)
			}),
		getCmd(o, "package <package-id>", "Show one shipment package",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Orders().GetShipmentPackage(ctx, id)
			}),
		ordersTrackingCmd(o),
		ordersCancelCmd(o),
	)

	return root
}

func ordersTrackingCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tracking <package-id> <tracking-number>",
		Short: "Set the cargo tracking number of a shipment package",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.client.Orders().UpdateTrackingNumber(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}
}

func ordersCancelCmd(o *rootOptions) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <package-id>",
		Short: "Cancel a shipment package",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.client.Orders().Cancel(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}

	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason")
	cobra.CheckErr(cmd.MarkFlagRequired("reason"))

	return cmd
}
