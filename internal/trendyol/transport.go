package trendyol

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type connectTimeoutKey struct{}

func withConnectTimeout(ctx context.Context, d time.Duration) context.Context {
	if d <= 0 {
		return ctx
	}
	return context.WithValue(ctx, connectTimeoutKey{}, d)
}

// newBaseTransport clones the default transport and bounds each dial by
// the connect timeout carried on the request context.
func newBaseTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if d, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return dialer.DialContext(ctx, network, addr)
	}
	return t
}

// authTransport stamps the seller credentials on every request it forwards,
// retries included.
type authTransport struct {
	supplier *SupplierContext
	next     http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.supplier.Authorization())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.supplier.UserAgent())
	}
	return t.next.RoundTrip(r)
}

// debugTransport logs each request and response at debug level. It never
// changes what flows through it: bodies are re-buffered and any failure
// inside the tap is swallowed.
type debugTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logRequest(req)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	t.logResponse(req, resp)
	return resp, nil
}

func (t *debugTransport) logRequest(req *http.Request) {
	defer func() { _ = recover() }()

	var body []byte
	if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			body, _ = io.ReadAll(rc)
			_ = rc.Close()
		}
	}

	t.logger.Debug("Trendyol API Request",
		"method", req.Method,
		"uri", req.URL.String(),
		"headers", redactHeaders(req.Header),
		"body", string(body),
	)
}

func (t *debugTransport) logResponse(req *http.Request, resp *http.Response) {
	if resp.Body == nil {
		return
	}

	orig := resp.Body
	body, _ := io.ReadAll(orig)
	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), orig), orig}

	defer func() { _ = recover() }()
	t.logger.Debug("Trendyol API Response",
		"method", req.Method,
		"uri", req.URL.String(),
		"status", resp.StatusCode,
		"headers", redactHeaders(resp.Header),
		"body", string(body),
	)
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}

// newTransportChain wraps base as auth -> debug -> base.
func newTransportChain(base http.RoundTripper, supplier *SupplierContext, debug bool, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = newBaseTransport()
	}
	var rt http.RoundTripper = base
	if debug {
		rt = &debugTransport{logger: logger, next: rt}
	}
	return &authTransport{supplier: supplier, next: rt}
}
