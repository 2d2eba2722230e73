package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

var (
	claimColumns    = []column{{"ID", "id"}, {"ORDER", "orderNumber"}, {"STATUS", "status"}, {"REASON", "reason"}}
	questionColumns = []column{{"ID", "id"}, {"PRODUCT", "productName"}, {"STATUS", "status"}, {"QUESTION", "text"}}
	returnColumns   = []column{{"ID", "id"}, {"ORDER", "orderNumber"}, {"STATUS", "status"}, {"TRACKING", "cargoTrackingNumber"}}
)

func claimsCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "claims",
		Short: "Inspect customer claims",
	}

	root.AddCommand(
		listCmd(o, "List claims", claimColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Claims().List(ctx, f)
			}),
		getCmd(o, "get <id>", "Show one claim",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Claims().Get(ctx, id)
			}),
	)

	return root
}

func questionsCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "questions",
		Short: "Read and answer customer questions",
	}

	root.AddCommand(
		listCmd(o, "List questions", questionColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Questions().List(ctx, f)
			}),
		getCmd(o, "get <id>", "Show one question",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Questions().Get(ctx, id)
			}),
		&cobra.Command{
			Use:   "answer <id> <text>",
			Short: "Answer a question",
			Args:  cobra.ExactArgs(2),
			RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
				res, err := a.client.Questions().Answer(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return a.print(nil, res)
			}),
		},
	)

	return root
}

func returnsCmd(o *rootOptions) *cobra.Command {
	var reason string

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a return to a new status",
		Long:  "Move a return to a new status. --reason is sent only with " + trendyol.ReturnStatusRejected + ".",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.client.Returns().UpdateStatus(cmd.Context(), args[0], args[1], reason)
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}
	status.Flags().StringVar(&reason, "reason", "", "rejection reason")

	root := &cobra.Command{
		Use:   "returns",
		Short: "Inspect and process returns",
	}

	root.AddCommand(
		listCmd(o, "List returns", returnColumns,
			func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error) {
				return c.Returns().List(ctx, f)
			}),
		getCmd(o, "get <id>", "Show one return",
			func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error) {
				return c.Returns().Get(ctx, id)
			}),
		status,
	)

	return root
}
