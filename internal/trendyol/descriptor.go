package trendyol

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"
)

// Descriptor describes one logical HTTP call. The Requester re-sends the
// same descriptor on every retry.
type Descriptor struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any
	Header   http.Header

	// Timeout and ConnectTimeout override the client defaults when set.
	Timeout        time.Duration
	ConnectTimeout time.Duration

	// Refresh skips the cache lookup for a GET but still stores the fresh
	// response.
	Refresh bool
}

type refreshKey struct{}

// WithRefresh returns a context under which every GET behaves as if its
// Descriptor set Refresh. Services take no Descriptor, so this is how their
// cached reads are re-fetched.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func (d *Descriptor) refresh(ctx context.Context) bool {
	if d.Refresh {
		return true
	}
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

func (d *Descriptor) method() string {
	if d.Method == "" {
		return http.MethodGet
	}
	return d.Method
}

// SupplierContext identifies the seller account. It is built once by New
// and shared read-only by every service.
type SupplierContext struct {
	SupplierID string
	APIKey     string
	APISecret  string
	BaseURL    string
}

// Authorization returns the Basic credential header value.
func (s *SupplierContext) Authorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.APIKey+":"+s.APISecret))
}

// UserAgent returns the integration identifier the marketplace expects.
func (s *SupplierContext) UserAgent() string {
	return s.SupplierID + " - SelfIntegration"
}
