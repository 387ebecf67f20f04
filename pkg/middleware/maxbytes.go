package middleware

import "net/http"

// MaxBytes returns middleware that caps request body size. Reads beyond
// the limit fail with a *http.MaxBytesError, surfacing as 400 from the
// JSON decoders downstream.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
