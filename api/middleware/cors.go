package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsAllowedHeaders = []string{"Content-Type", "Authorization"}
)

// CORS applies the API's open origin policy. The fixed allow headers are set
// after the cors handler runs, so preflights report the full lists rather than
// echoing the request. Every OPTIONS request ends here with an empty 200.
func CORS() func(http.Handler) http.Handler {
	policy := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     corsAllowedMethods,
		AllowedHeaders:     corsAllowedHeaders,
		OptionsPassthrough: true,
	})
	methods := strings.Join(corsAllowedMethods, ", ")
	headers := strings.Join(corsAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return policy.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
