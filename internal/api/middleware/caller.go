package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/fivesgame-go/internal/api/apierr"
	"github.com/mcoot/fivesgame-go/internal/model"
)

type contextKey string

const callerContextKey contextKey = "caller"

// CallerHeader carries the address of the party submitting the request,
// either a player acting directly or a relayer acting on their behalf
const CallerHeader = "X-Caller-Address"

// Caller creates middleware requiring a caller address on every request
func Caller() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := extractCaller(r)
			if caller == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), callerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCaller extracts the caller address if present but doesn't require it
func OptionalCaller() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller := extractCaller(r); caller != "" {
				ctx := context.WithValue(r.Context(), callerContextKey, caller)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractCaller extracts the caller address from the request
func extractCaller(r *http.Request) model.Address {
	addr := strings.TrimSpace(r.Header.Get(CallerHeader))
	if addr == "" {
		// Fall back to query param, used by EventSource clients which
		// cannot set headers
		addr = strings.TrimSpace(r.URL.Query().Get("caller"))
	}
	return model.Address(addr)
}

// GetCaller returns the caller address from the request context
func GetCaller(ctx context.Context) model.Address {
	caller, _ := ctx.Value(callerContextKey).(model.Address)
	return caller
}

// MustGetCaller returns the caller address or panics
func MustGetCaller(ctx context.Context) model.Address {
	caller := GetCaller(ctx)
	if caller == "" {
		panic("no caller in context - caller middleware not applied?")
	}
	return caller
}
