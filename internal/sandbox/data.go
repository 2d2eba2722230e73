package sandbox

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
)

//go:embed fixtures/seller.json
var defaultFixture []byte

// Item is one fixture record.
type Item = map[string]any

// Fixture is the seller account the sandbox serves.
type Fixture struct {
	Products           []Item            `json:"products"`
	Orders             []Item            `json:"orders"`
	Claims             []Item            `json:"claims"`
	Questions          []Item            `json:"questions"`
	Returns            []Item            `json:"returns"`
	Addresses          []Item            `json:"addresses"`
	Brands             []Item            `json:"brands"`
	Categories         []Item            `json:"categories"`
	CategoryAttributes map[string][]Item `json:"categoryAttributes"`
	ShipmentProviders  []Item            `json:"shipmentProviders"`
}

// LoadFixture parses a fixture document.
func LoadFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

// DefaultFixture returns a fresh copy of the built-in seller account.
func DefaultFixture() *Fixture {
	f, err := LoadFixture(defaultFixture)
	if err != nil {
		panic(err)
	}
	return f
}

// catalog guards the mutable collections of a Fixture.
type catalog struct {
	mu sync.RWMutex
	f  *Fixture
}

func (c *catalog) collection(name string) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var items []Item
	switch name {
	case "products":
		items = c.f.Products
	case "orders":
		items = c.f.Orders
	case "claims":
		items = c.f.Claims
	case "questions":
		items = c.f.Questions
	case "returns":
		items = c.f.Returns
	case "addresses":
		items = c.f.Addresses
	case "brands":
		items = c.f.Brands
	case "categories":
		items = c.f.Categories
	case "shipmentProviders":
		items = c.f.ShipmentProviders
	}
	return slices.Clone(items)
}

func (c *catalog) attributes(categoryID string) ([]Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attrs, ok := c.f.CategoryAttributes[categoryID]
	return slices.Clone(attrs), ok
}

// upsertProducts adds items whose barcode is new and merges the rest.
func (c *catalog) upsertProducts(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		if !c.mergeProduct(item) {
			c.f.Products = append(c.f.Products, item)
		}
	}
}

// updateProducts merges items into existing products only.
func (c *catalog) updateProducts(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		c.mergeProduct(item)
	}
}

// mergeProduct overlays item onto the product with the same barcode.
// Callers hold c.mu.
func (c *catalog) mergeProduct(item Item) bool {
	barcode := str(item["barcode"])
	if barcode == "" {
		return false
	}
	i := slices.IndexFunc(c.f.Products, func(p Item) bool { return str(p["barcode"]) == barcode })
	if i < 0 {
		return false
	}
	merged := maps.Clone(c.f.Products[i])
	maps.Copy(merged, item)
	c.f.Products[i] = merged
	return true
}

func (c *catalog) deleteProduct(barcode string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.f.Products)
	c.f.Products = slices.DeleteFunc(c.f.Products, func(p Item) bool {
		return str(p["barcode"]) == barcode
	})
	return len(c.f.Products) < n
}

// find returns the first item whose id, barcode or orderNumber equals key.
func find(items []Item, key string) (Item, bool) {
	for _, item := range items {
		for _, field := range []string{"id", "barcode", "orderNumber", "shipmentPackageId"} {
			if v, ok := item[field]; ok && str(v) == key {
				return item, true
			}
		}
	}
	return nil, false
}

// filter keeps items whose fields equal every filter value. Unknown fields
// never match.
func filter(items []Item, filters map[string]string) []Item {
	if len(filters) == 0 {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		keep := true
		for k, want := range filters {
			if v, ok := item[k]; !ok || !strings.EqualFold(str(v), want) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
