package sandbox

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultPageSize = 50

// pagingParams are query keys that never act as list filters.
var pagingParams = map[string]struct{}{
	"page":             {},
	"size":             {},
	"supplierId":       {},
	"orderByField":     {},
	"orderByDirection": {},
}

func newBatchID() string {
	return uuid.NewString()
}

func (s *Server) routes(api *echo.Group) {
	api.GET("/brands", s.listBrands)
	api.GET("/brands/by-name", s.brandsByName)
	api.GET("/product-categories", s.wrapped("categories", "categories"))
	api.GET("/product-categories/:id", s.getItem("categories"))
	api.GET("/product-categories/:id/attributes", s.categoryAttributes)
	api.GET("/shipment-providers", s.plain("shipmentProviders"))

	sup := api.Group("/suppliers/:supplierId", s.checkSupplier)

	sup.GET("/products", s.listPage("products"))
	sup.GET("/products/:id", s.getItem("products"))
	sup.POST("/products", s.createProducts)
	sup.PUT("/products", s.updateProducts)
	sup.POST("/products/price-and-inventory", s.updateProducts)
	sup.DELETE("/products", s.deleteProduct)

	sup.GET("/orders", s.listPage("orders"))
	sup.GET("/orders/:id", s.getItem("orders"))
	sup.GET("/orders/shipment-packages/:id", s.getItem("orders"))

	sup.GET("/claims", s.listPage("claims"))
	sup.GET("/claims/:id", s.getItem("claims"))

	sup.GET("/questions", s.listPage("questions"))
	sup.GET("/questions/:id", s.getItem("questions"))

	sup.GET("/returns", s.listPage("returns"))
	sup.GET("/returns/:id", s.getItem("returns"))

	sup.GET("/addresses", s.wrapped("addresses", "supplierAddresses"))
	sup.GET("/shipment-providers", s.plain("shipmentProviders"))

	// Remaining writes are accepted as asynchronous batches.
	sup.Any("/*", s.acceptBatch)
}

func (s *Server) checkSupplier(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Param("supplierId") != s.cfg.SupplierID {
			return echo.NewHTTPError(http.StatusForbidden, "supplier does not match credentials")
		}
		return next(c)
	}
}

// listPage serves a paginated collection under "content". Query keys other
// than paging parameters filter by equal field value.
func (s *Server) listPage(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		filters := map[string]string{}
		for k, v := range c.QueryParams() {
			if _, skip := pagingParams[k]; skip || len(v) == 0 {
				continue
			}
			filters[k] = v[0]
		}
		items := filter(s.catalog.collection(name), filters)
		return c.JSON(http.StatusOK, paginate(c, "content", items))
	}
}

func (s *Server) getItem(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		item, ok := find(s.catalog.collection(name), c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, name+" "+c.Param("id")+" not found")
		}
		return c.JSON(http.StatusOK, item)
	}
}

// wrapped serves a whole collection under key.
func (s *Server) wrapped(name, key string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{key: s.catalog.collection(name)})
	}
}

// plain serves a whole collection as a bare array.
func (s *Server) plain(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.catalog.collection(name))
	}
}

func (s *Server) listBrands(c echo.Context) error {
	return c.JSON(http.StatusOK, paginate(c, "brands", s.catalog.collection("brands")))
}

func (s *Server) brandsByName(c echo.Context) error {
	name := strings.ToLower(c.QueryParam("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	matched := []Item{}
	for _, b := range s.catalog.collection("brands") {
		if strings.Contains(strings.ToLower(str(b["name"])), name) {
			matched = append(matched, b)
		}
	}
	return c.JSON(http.StatusOK, matched)
}

func (s *Server) categoryAttributes(c echo.Context) error {
	id := c.Param("id")
	attrs, ok := s.catalog.attributes(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "category "+id+" has no attributes")
	}
	category, _ := find(s.catalog.collection("categories"), id)
	return c.JSON(http.StatusOK, map[string]any{
		"id":                 category["id"],
		"name":               category["name"],
		"categoryAttributes": attrs,
	})
}

type itemsPayload struct {
	Items []Item `json:"items"`
}

func (s *Server) createProducts(c echo.Context) error {
	var body itemsPayload
	if err := c.Bind(&body); err != nil || len(body.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "items are required")
	}
	s.catalog.upsertProducts(body.Items)
	return s.batch(c)
}

func (s *Server) updateProducts(c echo.Context) error {
	var body itemsPayload
	if err := c.Bind(&body); err != nil || len(body.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "items are required")
	}
	s.catalog.updateProducts(body.Items)
	return s.batch(c)
}

func (s *Server) deleteProduct(c echo.Context) error {
	barcode := c.QueryParam("barcode")
	if !s.catalog.deleteProduct(barcode) {
		return echo.NewHTTPError(http.StatusNotFound, "product "+barcode+" not found")
	}
	return s.batch(c)
}

func (s *Server) acceptBatch(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return echo.NewHTTPError(http.StatusNotFound, "no fixture for "+c.Request().URL.Path)
	}
	return s.batch(c)
}

func (s *Server) batch(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"batchRequestId": s.newID()})
}

// paginate slices items by the page and size query parameters. Pages are
// zero-based.
func paginate(c echo.Context, key string, items []Item) map[string]any {
	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}

	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)

	return map[string]any{
		key:             items[start:end],
		"totalElements": total,
		"totalPages":    int(math.Ceil(float64(total) / float64(size))),
		"page":          page,
		"size":          size,
	}
}

func queryInt(c echo.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
