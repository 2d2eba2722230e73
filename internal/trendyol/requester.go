package trendyol

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
	"github.com/donaldgifford/trendyol-sp/internal/metrics"
)

// Result is a decoded JSON response: map[string]any, []any, a scalar or nil.
type Result = any

// Request outcome labels.
const (
	outcomeSuccess   = "success"
	outcomeCacheHit  = "cache_hit"
	outcomeValidated = "validation_error"
	outcomeExhausted = "retry_exhausted"
	outcomeTransport = "transport_error"
)

type attemptState int

const (
	stateAttempting attemptState = iota
	stateSuccess
	stateTransient
	stateTerminal
)

// retryState lives for one logical request.
type retryState struct {
	attempt     int
	maxAttempts int
	baseDelay   time.Duration
}

func (s *retryState) exhausted() bool {
	return s.attempt >= s.maxAttempts
}

// backoff is linear: baseDelay * (attempt + 1).
func (s *retryState) backoff() time.Duration {
	return s.baseDelay * time.Duration(s.attempt+1)
}

type attemptResult struct {
	state  attemptState
	body   []byte
	status int
	err    *APIError
}

// Requester executes logical requests against the seller API: cache check,
// throttle, dispatch, classify, retry.
type Requester struct {
	supplier       *SupplierContext
	client         *http.Client
	limiter        *RateLimiter
	store          cache.Store
	cacheTTL       time.Duration
	cachePrefix    string
	maxAttempts    int
	baseDelay      time.Duration
	timeout        time.Duration
	connectTimeout time.Duration
	logger         *slog.Logger
	tracer         trace.Tracer
	sleepFunc      func(context.Context, time.Duration) error
	group          singleflight.Group
}

// Get issues a GET. GETs are the only cacheable requests.
func (r *Requester) Get(ctx context.Context, endpoint string, query url.Values) (Result, error) {
	return r.Execute(ctx, &Descriptor{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

// Post issues a POST with a JSON body.
func (r *Requester) Post(ctx context.Context, endpoint string, body any) (Result, error) {
	return r.Execute(ctx, &Descriptor{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

// Put issues a PUT with a JSON body.
func (r *Requester) Put(ctx context.Context, endpoint string, body any) (Result, error) {
	return r.Execute(ctx, &Descriptor{Method: http.MethodPut, Endpoint: endpoint, Body: body})
}

// Delete issues a DELETE. Body may be nil.
func (r *Requester) Delete(ctx context.Context, endpoint string, body any, query url.Values) (Result, error) {
	return r.Execute(ctx, &Descriptor{Method: http.MethodDelete, Endpoint: endpoint, Body: body, Query: query})
}

// Execute runs d to completion. It either returns the decoded body or an
// *APIError of kind ErrValidation, ErrRetryExhausted or ErrTransport.
func (r *Requester) Execute(ctx context.Context, d *Descriptor) (Result, error) {
	method := d.method()

	ctx, span := r.tracer.Start(ctx, "trendyol "+method+" "+d.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("trendyol.endpoint", d.Endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	res, outcome, err := r.execute(ctx, d)

	metrics.RequestDuration.WithLabelValues(method, outcome).Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()
	span.SetAttributes(attribute.String("trendyol.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (r *Requester) execute(ctx context.Context, d *Descriptor) (Result, string, error) {
	if !r.cacheable(d) {
		raw, err := r.dispatch(ctx, d)
		if err != nil {
			return nil, outcomeOf(err), err
		}
		res, err := decodeResult(raw)
		if err != nil {
			return nil, outcomeTransport, err
		}
		return res, outcomeSuccess, nil
	}

	key, err := CacheKey(r.cachePrefix, d)
	if err != nil {
		apiErr := transportError("API request error", err)
		return nil, outcomeTransport, apiErr
	}

	if !d.refresh(ctx) {
		if raw, ok := r.lookup(ctx, key); ok {
			res, err := decodeResult(raw)
			if err == nil {
				return res, outcomeCacheHit, nil
			}
			r.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, outcomeTransport, transportError("API request error", err)
	}

	// The shared dispatch outlives any single caller; each attempt is still
	// bounded by the request timeout.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		raw, err := r.dispatch(shared, d)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
			return nil, transportError("API request error", errors.New("decoding response: invalid JSON"))
		}
		r.save(shared, key, raw)
		return raw, nil
	})

	var flight singleflight.Result
	select {
	case flight = <-ch:
	case <-ctx.Done():
		return nil, outcomeTransport, transportError("API request error", ctx.Err())
	}
	if flight.Err != nil {
		return nil, outcomeOf(flight.Err), flight.Err
	}
	if flight.Shared {
		r.logger.Debug("collapsed concurrent request", "key", key)
	}

	res, err := decodeResult(flight.Val.([]byte))
	if err != nil {
		return nil, outcomeTransport, err
	}
	return res, outcomeSuccess, nil
}

func (r *Requester) cacheable(d *Descriptor) bool {
	return r.store != nil && r.cacheTTL > 0 && d.method() == http.MethodGet
}

// lookup treats any cache error as a miss.
func (r *Requester) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := r.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		r.logger.Warn("cache lookup failed", "key", key, "error", err)
		return nil, false
	case !ok:
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		r.logger.Debug("cache miss", "key", key)
		return nil, false
	default:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		r.logger.Debug("cache hit", "key", key)
		return raw, true
	}
}

func (r *Requester) save(ctx context.Context, key string, raw []byte) {
	if err := r.store.Set(ctx, key, raw, r.cacheTTL); err != nil {
		metrics.CacheWritesTotal.WithLabelValues("error").Inc()
		r.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	metrics.CacheWritesTotal.WithLabelValues("ok").Inc()
}

// dispatch drives the retry state machine and returns the raw success body.
func (r *Requester) dispatch(ctx context.Context, d *Descriptor) ([]byte, error) {
	method := d.method()

	payload, err := encodeBody(d.Body)
	if err != nil {
		return nil, transportError("API request error", err)
	}

	requestID := uuid.NewString()
	rs := retryState{maxAttempts: r.maxAttempts, baseDelay: r.baseDelay}
	state := stateAttempting
	var res attemptResult

	for {
		switch state {
		case stateAttempting:
			res = r.attempt(ctx, d, payload, requestID, rs.attempt)
			state = res.state

		case stateSuccess:
			return res.body, nil

		case stateTerminal:
			res.err.Attempts = rs.attempt + 1
			r.logger.Error("Trendyol API request failed",
				"method", method,
				"endpoint", d.Endpoint,
				"request_id", requestID,
				"error", res.err.Message,
				"code", res.err.Code,
			)
			return nil, res.err

		case stateTransient:
			if rs.exhausted() {
				return nil, r.exhaust(d, requestID, &rs, res.err)
			}

			delay := rs.backoff()
			r.logger.Warn("retrying Trendyol API request",
				"method", method,
				"endpoint", d.Endpoint,
				"request_id", requestID,
				"attempt", rs.attempt+1,
				"max_attempts", rs.maxAttempts,
				"error", res.err.Message,
				"code", res.status,
				"backoff", delay,
			)
			metrics.RetriesTotal.WithLabelValues(method).Inc()

			if err := r.sleepFunc(ctx, delay); err != nil {
				apiErr := transportError("API request error", fmt.Errorf("waiting to retry: %w", err))
				apiErr.Attempts = rs.attempt + 1
				return nil, apiErr
			}
			rs.attempt++
			state = stateAttempting
		}
	}
}

func (r *Requester) exhaust(d *Descriptor, requestID string, rs *retryState, last *APIError) *APIError {
	attempts := rs.attempt + 1
	code := last.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}

	apiErr := &APIError{
		Kind:     ErrRetryExhausted,
		Message:  fmt.Sprintf("API request failed after %d attempts: %s", attempts, last.Message),
		Code:     code,
		Attempts: attempts,
		Err:      last,
	}
	r.logger.Error("Trendyol API request failed",
		"method", d.method(),
		"endpoint", d.Endpoint,
		"request_id", requestID,
		"attempts", attempts,
		"error", last.Message,
		"code", code,
	)
	return apiErr
}

// attempt performs one dispatch and classifies its outcome.
func (r *Requester) attempt(
	ctx context.Context,
	d *Descriptor,
	payload []byte,
	requestID string,
	n int,
) attemptResult {
	ctx, span := r.tracer.Start(ctx, "trendyol.attempt",
		trace.WithAttributes(attribute.Int("trendyol.attempt", n)),
	)
	defer span.End()

	if err := r.limiter.Throttle(ctx); err != nil {
		return terminal(transportError("API request error", err))
	}

	timeout := r.timeout
	if d.Timeout > 0 {
		timeout = d.Timeout
	}
	connectTimeout := r.connectTimeout
	if d.ConnectTimeout > 0 {
		connectTimeout = d.ConnectTimeout
	}

	actx := withConnectTimeout(ctx, connectTimeout)
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(actx, timeout)
		defer cancel()
	}

	req, err := r.newRequest(actx, d, payload, requestID)
	if err != nil {
		return terminal(transportError("API request error", err))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		span.RecordError(err)
		// No response arrived and the caller is still waiting.
		if ctx.Err() == nil && (isConnectionError(err) || isTimeout(err)) {
			metrics.AttemptsTotal.WithLabelValues(d.method(), "connection_error").Inc()
			return attemptResult{
				state: stateTransient,
				err: &APIError{
					Kind:    ErrTransientNetwork,
					Message: err.Error(),
					Err:     err,
				},
			}
		}
		metrics.AttemptsTotal.WithLabelValues(d.method(), "error").Inc()
		return terminal(transportError("API request error", err))
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	metrics.AttemptsTotal.WithLabelValues(d.method(), strconv.Itoa(status)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return terminal(transportError("API request error", fmt.Errorf("reading response body: %w", err)))
	}

	switch {
	case isTransientStatus(status):
		return attemptResult{
			state:  stateTransient,
			status: status,
			err: &APIError{
				Kind:    ErrTransientNetwork,
				Message: fmt.Sprintf("HTTP %d: %s", status, errorMessage(body, http.StatusText(status))),
				Code:    status,
			},
		}
	case status >= http.StatusBadRequest:
		return attemptResult{
			state:  stateTerminal,
			status: status,
			err: &APIError{
				Kind:    ErrValidation,
				Message: errorMessage(body, "API error"),
				Code:    status,
			},
		}
	default:
		return attemptResult{state: stateSuccess, status: status, body: body}
	}
}

func terminal(err *APIError) attemptResult {
	return attemptResult{state: stateTerminal, err: err}
}

func (r *Requester) newRequest(
	ctx context.Context,
	d *Descriptor,
	payload []byte,
	requestID string,
) (*http.Request, error) {
	u, err := url.Parse(strings.TrimRight(r.supplier.BaseURL, "/") + d.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("building request URL: %w", err)
	}
	if len(d.Query) > 0 {
		q := u.Query()
		for k, vs := range d.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, d.method(), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if d.Header != nil {
		req.Header = d.Header.Clone()
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID)
	return req, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return data, nil
}

func decodeResult(raw []byte) (Result, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, transportError("API request error", fmt.Errorf("decoding response: %w", err))
	}
	return out, nil
}

type errorEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// errorMessage extracts errors[0].message from an error body.
func errorMessage(body []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}
	if len(env.Errors) == 0 || env.Errors[0].Message == "" {
		return fallback
	}
	return env.Errors[0].Message
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// isConnectionError reports DNS, TCP and TLS handshake failures.
func isConnectionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "remote error") {
		return true
	}
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// isTimeout matches dial, TLS handshake and per-attempt deadlines.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return outcomeValidated
	case errors.Is(err, ErrRetryExhausted):
		return outcomeExhausted
	default:
		return outcomeTransport
	}
}
