package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/prosemirror-api/api/responses"
	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
)

func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("%v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec)})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, ""))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
