package trendyol

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cespare/xxhash/v2"
)

type keyOptions struct {
	Query  url.Values  `json:"query,omitempty"`
	Header http.Header `json:"headers,omitempty"`
	Body   any         `json:"body,omitempty"`
}

// CacheKey derives the response cache key for d:
// prefix + method + "_" + endpoint + "_" + hash(query, headers, body).
func CacheKey(prefix string, d *Descriptor) (string, error) {
	opts, err := json.Marshal(keyOptions{
		Query:  d.Query,
		Header: d.Header,
		Body:   d.Body,
	})
	if err != nil {
		return "", fmt.Errorf("hashing request options: %w", err)
	}
	return fmt.Sprintf("%s%s_%s_%016x", prefix, d.method(), d.Endpoint, xxhash.Sum64(opts)), nil
}
