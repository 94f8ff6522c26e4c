package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	accountKey   contextKey = "account"
	requestIDKey contextKey = "requestID"
)

// AccountFrom retrieves the logged-in account email from the request context.
func AccountFrom(r *http.Request) string {
	if v, ok := r.Context().Value(accountKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithAccount returns a new context carrying the account email.
func ContextWithAccount(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, accountKey, email)
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
