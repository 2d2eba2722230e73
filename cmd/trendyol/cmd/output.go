package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// column maps a table header to a field path such as "attribute.name".
type column struct {
	header string
	field  string
}

func printTable(w io.Writer, columns []column, items []any) error {
	tw := newTabWriter(w)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	tw.writef("%s\n", strings.Join(headers, "\t"))

	for _, item := range items {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = truncate(cell(lookup(item, c.field)), 40)
		}
		tw.writef("%s\n", strings.Join(cells, "\t"))
	}
	return tw.finish()
}

func printPage(w io.Writer, columns []column, page *trendyol.Page) error {
	if page == nil || len(page.Items()) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d (page %d, %d pages)\n\n",
		len(page.Items()), page.TotalCount, page.Page, page.TotalPages); err != nil {
		return err
	}
	return printTable(w, columns, page.Items())
}

// printDetail prints one entity as sorted key/value rows. Nested values are
// printed as compact JSON.
func printDetail(w io.Writer, res trendyol.Result) error {
	obj, ok := res.(map[string]any)
	if !ok {
		return outputJSON(w, res)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tw := newTabWriter(w)
	for _, k := range keys {
		tw.writef("%s:\t%s\n", k, cell(obj[k]))
	}
	return tw.finish()
}

// printResult prints res as a table when it holds a list, and as a detail
// view otherwise.
func printResult(w io.Writer, columns []column, res trendyol.Result) error {
	if items, ok := rowsOf(res); ok && columns != nil {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No results.")
			return err
		}
		return printTable(w, columns, items)
	}
	return printDetail(w, res)
}

// rowsOf returns the list in res: res itself, or the only list-valued field
// of an object.
func rowsOf(res trendyol.Result) ([]any, bool) {
	switch v := res.(type) {
	case []any:
		return v, true
	case map[string]any:
		var found []any
		n := 0
		for _, field := range v {
			if items, ok := field.([]any); ok {
				found = items
				n++
			}
		}
		return found, n == 1
	}
	return nil, false
}

func lookup(v any, path string) any {
	for _, part := range strings.Split(path, ".") {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = obj[part]
	}
	return v
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
