// Package middleware provides HTTP middleware for the GasFinder web server.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header a request ID is read from and echoed on.
const HeaderRequestID = "X-Request-Id"

// idPrefix namespaces IDs generated here, so log queries can tell them
// apart from caller-supplied ones.
const idPrefix = "req_"

type requestIDKey struct{}

// RequestID assigns each request a unique ID, preferring an inbound
// HeaderRequestID when the caller supplied one. The ID is echoed in the
// response header and attached to the request context for the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = newRequestID()
		}

		w.Header().Set(HeaderRequestID, id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	return idPrefix + uuid.NewString()
}

// GetRequestID retrieves the request ID from the context, or "" when the
// RequestID middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
