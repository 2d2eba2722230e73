package trendyol

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Page is the uniform envelope for paginated collections.
type Page struct {
	Data       any `json:"data"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

// Items returns Data as a slice when it is one.
func (p *Page) Items() []any {
	if p == nil {
		return nil
	}
	items, _ := p.Data.([]any)
	return items
}

// FormatSingle returns raw unchanged.
func FormatSingle(raw Result) Result {
	return raw
}

// FormatPaginated wraps raw in a Page. The items come from raw[field] when
// present, otherwise raw itself. Upstream pagination counts win over the
// local item count.
func FormatPaginated(raw Result, field string) *Page {
	if raw == nil {
		return nil
	}

	obj, _ := raw.(map[string]any)

	data := raw
	if v, ok := obj[field]; ok && v != nil && field != "" {
		data = v
	}

	total, ok := intField(obj, "totalElements", "totalCount")
	if !ok {
		total = countOf(data)
	}
	page, _ := intField(obj, "number", "page")
	size, _ := intField(obj, "size")
	totalPages, _ := intField(obj, "totalPages")

	return &Page{
		Data:       data,
		TotalCount: total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// FormatCollection formats raw as a Page when isCollection is set, and as a
// single entity otherwise.
func FormatCollection(raw Result, field string, isCollection bool) Result {
	if !isCollection {
		return FormatSingle(raw)
	}
	if p := FormatPaginated(raw, field); p != nil {
		return p
	}
	return nil
}

// intField returns the first of keys present in obj with a numeric value.
// Numeric strings are accepted.
func intField(obj map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := toInt(v); ok {
			return n, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(math.Trunc(n)), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(math.Trunc(f)), true
		}
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(math.Trunc(f)), true
		}
	}
	return 0, false
}

func countOf(data any) int {
	switch d := data.(type) {
	case []any:
		return len(d)
	case map[string]any:
		return len(d)
	default:
		return 0
	}
}
