package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// BodyLimit caps request bodies at limit bytes. Reads past the limit fail with
// *http.MaxBytesError. A non-positive limit disables the cap.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.RequestSize(limit)
}
