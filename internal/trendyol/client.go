// Package trendyol is a client for the Trendyol marketplace seller API.
//
// Every call flows through one Requester: an optional GET response cache,
// a client-side rate limiter, Basic-auth and debug round trippers, and a
// bounded retry loop with linear backoff for transient failures.
package trendyol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
)

const (
	DefaultBaseURL              = "https://api.trendyol.com/sapigw"
	DefaultTimeout              = 30 * time.Second
	DefaultConnectTimeout       = 10 * time.Second
	DefaultRetryAttempts        = 3
	DefaultRetryDelay           = time.Second
	DefaultCacheTTL             = time.Hour
	DefaultCachePrefix          = "trendyol_"
	DefaultMaxRequestsPerSecond = 5

	tracerName = "github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

// Config holds everything needed to build a Client.
type Config struct {
	SupplierID string
	APIKey     string
	APISecret  string
	BaseURL    string

	Timeout        time.Duration
	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration
	CachePrefix  string

	Debug bool

	RateLimitEnabled     bool
	MaxRequestsPerSecond int
}

// DefaultConfig returns a Config with every default applied and no
// credentials.
func DefaultConfig() Config {
	return Config{
		BaseURL:              DefaultBaseURL,
		Timeout:              DefaultTimeout,
		ConnectTimeout:       DefaultConnectTimeout,
		RetryAttempts:        DefaultRetryAttempts,
		RetryDelay:           DefaultRetryDelay,
		CacheEnabled:         true,
		CacheTTL:             DefaultCacheTTL,
		CachePrefix:          DefaultCachePrefix,
		RateLimitEnabled:     true,
		MaxRequestsPerSecond: DefaultMaxRequestsPerSecond,
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.SupplierID == "" {
		errs = append(errs, errors.New("supplier ID is required"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("API key is required"))
	}
	if c.APISecret == "" {
		errs = append(errs, errors.New("API secret is required"))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q is not an absolute URL", c.BaseURL))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("retry attempts must be >= 0, got %d", c.RetryAttempts))
	}
	if c.CacheEnabled && c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache TTL must be > 0 when caching is enabled, got %s", c.CacheTTL))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry delay must be >= 0, got %s", c.RetryDelay))
	}
	return errors.Join(errs...)
}

// Client is the entry point to the seller API. It is safe for concurrent use.
type Client struct {
	supplier  *SupplierContext
	requester *Requester
	limiter   *RateLimiter
	store     cache.Store
	ownsStore bool

	products          *ProductService
	orders            *OrderService
	categories        *CategoryService
	brands            *BrandService
	claims            *ClaimService
	returns           *ReturnService
	questions         *QuestionService
	shipmentProviders *ShipmentProviderService
	addresses         *AddressService
}

type options struct {
	logger         *slog.Logger
	httpClient     *http.Client
	store          cache.Store
	sleepFunc      func(context.Context, time.Duration) error
	limiter        *RateLimiter
	tracerProvider trace.TracerProvider
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient sets the client whose transport the auth and debug round
// trippers wrap. Its Timeout is ignored in favour of Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithCache sets the response cache. The Client does not close it.
// Without this option an in-memory store is used when caching is enabled.
func WithCache(s cache.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithSleepFunc overrides how the retry loop waits between attempts.
func WithSleepFunc(f func(context.Context, time.Duration) error) Option {
	return func(o *options) {
		o.sleepFunc = f
	}
}

// WithRateLimiter replaces the limiter built from Config.
func WithRateLimiter(r *RateLimiter) Option {
	return func(o *options) {
		o.limiter = r
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// New builds a Client from cfg. Zero BaseURL, Timeout, ConnectTimeout,
// CacheTTL and CachePrefix take their defaults.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = DefaultCachePrefix
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid trendyol config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.sleepFunc == nil {
		o.sleepFunc = sleepContext
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.limiter == nil {
		o.limiter = NewRateLimiter(cfg.RateLimitEnabled, cfg.MaxRequestsPerSecond)
	}

	supplier := &SupplierContext{
		SupplierID: cfg.SupplierID,
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		BaseURL:    cfg.BaseURL,
	}

	var base http.RoundTripper
	hc := &http.Client{}
	if o.httpClient != nil {
		*hc = *o.httpClient
		base = o.httpClient.Transport
	}
	if base == nil {
		base = newBaseTransport()
	}
	base = otelhttp.NewTransport(base, otelhttp.WithTracerProvider(o.tracerProvider))
	hc.Transport = newTransportChain(base, supplier, cfg.Debug, o.logger)
	hc.Timeout = 0

	c := &Client{
		supplier: supplier,
		limiter:  o.limiter,
	}

	if cfg.CacheEnabled {
		c.store = o.store
		if c.store == nil {
			c.store = cache.NewMemoryStore()
			c.ownsStore = true
		}
	}

	c.requester = &Requester{
		supplier:       supplier,
		client:         hc,
		limiter:        o.limiter,
		store:          c.store,
		cacheTTL:       cfg.CacheTTL,
		cachePrefix:    cfg.CachePrefix,
		maxAttempts:    cfg.RetryAttempts,
		baseDelay:      cfg.RetryDelay,
		timeout:        cfg.Timeout,
		connectTimeout: cfg.ConnectTimeout,
		logger:         o.logger,
		tracer:         o.tracerProvider.Tracer(tracerName),
		sleepFunc:      o.sleepFunc,
	}

	svc := service{req: c.requester, supplier: supplier}
	c.products = &ProductService{svc}
	c.orders = &OrderService{svc}
	c.categories = &CategoryService{svc}
	c.brands = &BrandService{svc}
	c.claims = &ClaimService{svc}
	c.returns = &ReturnService{svc}
	c.questions = &QuestionService{svc}
	c.shipmentProviders = &ShipmentProviderService{svc}
	c.addresses = &AddressService{svc}

	return c, nil
}

// Requester returns the shared request pipeline for endpoints the services
// do not cover.
func (c *Client) Requester() *Requester { return c.requester }

// Supplier returns the seller account the client is bound to.
func (c *Client) Supplier() SupplierContext { return *c.supplier }

// RateLimiter returns the shared limiter.
func (c *Client) RateLimiter() *RateLimiter { return c.limiter }

// Cache returns the response cache, or nil when caching is disabled.
func (c *Client) Cache() cache.Store { return c.store }

func (c *Client) Products() *ProductService                   { return c.products }
func (c *Client) Orders() *OrderService                       { return c.orders }
func (c *Client) Categories() *CategoryService                { return c.categories }
func (c *Client) Brands() *BrandService                       { return c.brands }
func (c *Client) Claims() *ClaimService                       { return c.claims }
func (c *Client) Returns() *ReturnService                     { return c.returns }
func (c *Client) Questions() *QuestionService                 { return c.questions }
func (c *Client) ShipmentProviders() *ShipmentProviderService { return c.shipmentProviders }
func (c *Client) Addresses() *AddressService                  { return c.addresses }

// Close releases the cache store when the client created it.
func (c *Client) Close() error {
	if c.ownsStore && c.store != nil {
		return c.store.Close()
	}
	return nil
}
