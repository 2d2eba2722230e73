// Package middleware provides Echo middleware for the sandbox seller API:
// request logging keyed by X-Request-ID, panic recovery that answers in the
// seller API error envelope, and Prometheus request metrics.
package middleware

// ErrorBody is the seller API error envelope.
func ErrorBody(key, message string) map[string]any {
	return map[string]any{
		"errors": []map[string]string{{"key": key, "message": message}},
	}
}
