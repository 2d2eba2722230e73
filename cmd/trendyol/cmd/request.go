package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

var requestMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

func requestCmd(o *rootOptions) *cobra.Command {
	var (
		query   map[string]string
		data    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "request <method> <endpoint>",
		Short: "Send a raw request through the client pipeline",
		Long: "Send any request through the same rate limiter, cache and retry loop\n" +
			"the typed commands use. {supplierId} in the endpoint is replaced with\n" +
			"the configured supplier ID.",
		Example: `  trendyol request GET /suppliers/{supplierId}/products --query approved=true
  trendyol request POST /suppliers/{supplierId}/products/price-and-inventory \
    --data '{"items":[{"barcode":"8680000000011","quantity":5,"salePrice":129.9}]}'`,
		Args: cobra.ExactArgs(2),
		RunE: o.run(func(cmd *cobra.Command, args []string, a *app) error {
			method := strings.ToUpper(args[0])
			if !slices.Contains(requestMethods, method) {
				return fmt.Errorf("unsupported method %q (use one of %s)", args[0], strings.Join(requestMethods, ", "))
			}

			d := &trendyol.Descriptor{
				Method:   method,
				Endpoint: strings.ReplaceAll(args[1], "{supplierId}", url.PathEscape(a.cfg.Credentials.SupplierID)),
				Timeout:  timeout,
			}
			if len(query) > 0 {
				d.Query = url.Values{}
				for k, v := range query {
					d.Query.Set(k, v)
				}
			}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				d.Body = json.RawMessage(data)
			}

			res, err := a.client.Requester().Execute(a.ctx(cmd.Context()), d)
			if err != nil {
				return err
			}
			return outputJSON(a.out, res)
		}),
	}

	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "query parameters, e.g. -q page=0")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "override the request timeout")

	return cmd
}
