package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

type listFunc func(ctx context.Context, c *trendyol.Client, f trendyol.Filter) (*trendyol.Page, error)

type getFunc func(ctx context.Context, c *trendyol.Client, id string) (trendyol.Result, error)

// listCmd builds a paginated "list" subcommand with --page, --size and
// repeatable --filter key=value flags.
func listCmd(o *rootOptions, short string, columns []column, list listFunc) *cobra.Command {
	var (
		page    int
		size    int
		filters map[string]string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			f := trendyol.Filter{}
			for k, v := range filters {
				f[k] = v
			}
			if cmd.Flags().Changed("page") {
				f["page"] = strconv.Itoa(page)
			}
			if cmd.Flags().Changed("size") {
				f["size"] = strconv.Itoa(size)
			}

			res, err := list(a.ctx(cmd.Context()), a.client, f)
			if err != nil {
				return err
			}
			if a.json {
				return outputJSON(a.out, res)
			}
			return printPage(a.out, columns, res)
		}),
	}

	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 50, "page size")
	cmd.Flags().StringToStringVar(&filters, "filter", nil, "extra query filters, e.g. --filter status=Created")

	return cmd
}

func getCmd(o *rootOptions, use, short string, get getFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			res, err := get(a.ctx(cmd.Context()), a.client, args[0])
			if err != nil {
				return err
			}
			return a.print(nil, res)
		}),
	}
}

// print writes res as JSON or as a table/detail view.
func (a *app) print(columns []column, res trendyol.Result) error {
	if a.json {
		return outputJSON(a.out, res)
	}
	return printResult(a.out, columns, res)
}
