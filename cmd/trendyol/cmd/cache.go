package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// purger is implemented by the cache backends that keep expired rows until
// asked to drop them.
type purger interface {
	Purge(ctx context.Context) (int64, error)
}

func cacheCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the response cache",
	}

	root.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired cache entries",
		Long: "Delete expired entries from the sqlite or postgres cache backends.\n" +
			"Memory and redis entries expire on their own.",
		Args: cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			if a.store == nil {
				return fmt.Errorf("cache is disabled")
			}
			p, ok := a.store.(purger)
			if !ok {
				_, err := fmt.Fprintf(a.out, "The %s cache expires entries itself.\n", a.cfg.Cache.Backend)
				return err
			}
			n, err := p.Purge(cmd.Context())
			if err != nil {
				return fmt.Errorf("purging cache: %w", err)
			}
			_, err = fmt.Fprintf(a.out, "Purged %d expired entries.\n", n)
			return err
		}),
	})

	return root
}
