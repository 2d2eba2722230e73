package trendyol_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	base := &trendyol.Descriptor{
		Method:   http.MethodGet,
		Endpoint: "/product-categories",
		Query:    url.Values{"page": {"0"}, "size": {"100"}},
	}

	key, err := trendyol.CacheKey("trendyol_", base)
	require.NoError(t, err)
	assert.Regexp(t, `^trendyol_GET_/product-categories_[0-9a-f]{16}$`, key)

	same, err := trendyol.CacheKey("trendyol_", &trendyol.Descriptor{
		Endpoint: "/product-categories",
		Query:    url.Values{"size": {"100"}, "page": {"0"}},
	})
	require.NoError(t, err)
	assert.Equal(t, key, same, "query order and implicit GET must not change the key")

	tests := []struct {
		name string
		d    *trendyol.Descriptor
	}{
		{
			name: "different query",
			d: &trendyol.Descriptor{
				Method: http.MethodGet, Endpoint: "/product-categories",
				Query: url.Values{"page": {"1"}, "size": {"100"}},
			},
		},
		{
			name: "different header",
			d: &trendyol.Descriptor{
				Method: http.MethodGet, Endpoint: "/product-categories",
				Query:  url.Values{"page": {"0"}, "size": {"100"}},
				Header: http.Header{"Accept-Language": {"tr"}},
			},
		},
		{
			name: "different endpoint",
			d: &trendyol.Descriptor{
				Method: http.MethodGet, Endpoint: "/brands",
				Query: url.Values{"page": {"0"}, "size": {"100"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			other, err := trendyol.CacheKey("trendyol_", tt.d)
			require.NoError(t, err)
			assert.NotEqual(t, key, other)
		})
	}
}

func TestCacheKey_UnencodableBody(t *testing.T) {
	t.Parallel()

	_, err := trendyol.CacheKey("p_", &trendyol.Descriptor{Endpoint: "/x", Body: make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hashing request options")
}
