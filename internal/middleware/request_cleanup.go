package middleware

import (
	"io"
	"net/http"
)

const DefaultMaxBodyBytes = 1 << 20

// LimitAndDrainRequest caps the request body size, and once the handler is done,
// drains whatever is left of the body and closes it so the connection can be reused.
func LimitAndDrainRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}

			next.ServeHTTP(w, r)

			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
