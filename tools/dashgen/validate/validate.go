// Package validate checks generated dashboards and rules before they are
// written: every expression must parse as PromQL and reference only known
// metric names.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/trendyol-sp/tools/dashgen/rules"
)

// Result collects problems found by a validation pass.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found. Warnings do not fail validation.
func (r Result) Ok() bool { return len(r.Errors) == 0 }

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// histogramSuffixes are the series a histogram exposes besides its base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses expr and reports metric names missing from known. The where
// argument prefixes every message.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: parsing %q: %v", where, expr, err))
		return res
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})
	return res
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// Dashboard validates every Prometheus target in dash, including panels
// nested in rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		if p.Panel != nil {
			res.merge(panel(*p.Panel, known))
		}
		if p.RowPanel != nil {
			for _, inner := range p.RowPanel.Panels {
				res.merge(panel(inner, known))
			}
		}
	}
	return res
}

func panel(p dashboard.Panel, known map[string]bool) Result {
	var res Result

	title := "untitled panel"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no targets", title))
		return res
	}

	for _, target := range p.Targets {
		expr, err := targetExpr(target)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("panel %q: %v", title, err))
			continue
		}
		if expr == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q: target %T has no expr", title, target))
			continue
		}
		res.merge(Expr(fmt.Sprintf("panel %q", title), expr, known))
	}
	return res
}

// targetExpr reads the expr field of a query target through its JSON form,
// which every datasource variant in the SDK serializes.
func targetExpr(target any) (string, error) {
	data, err := json.Marshal(target)
	if err != nil {
		return "", fmt.Errorf("encoding target: %w", err)
	}
	var q struct {
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(data, &q); err != nil {
		return "", fmt.Errorf("decoding target: %w", err)
	}
	return q.Expr, nil
}

// Rules validates every expression in cr. Alerts also need a severity label
// and a summary annotation.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if rule.Alert != "" {
				name = rule.Alert
				if rule.Labels["severity"] == "" {
					res.Errors = append(res.Errors, fmt.Sprintf("alert %s: missing severity label", name))
				}
				if rule.Annotations["summary"] == "" {
					res.Errors = append(res.Errors, fmt.Sprintf("alert %s: missing summary annotation", name))
				}
			}
			if name == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("group %s: rule has neither record nor alert", group.Name))
				continue
			}
			res.merge(Expr(fmt.Sprintf("%s/%s", group.Name, name), rule.Expr, known))
		}
	}
	return res
}
