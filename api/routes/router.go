package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/prosemirror-api/api/controllers"
	"github.com/angelmondragon/prosemirror-api/api/middleware"
	"github.com/angelmondragon/prosemirror-api/internal/conversion"
	"github.com/angelmondragon/prosemirror-api/pkg/config"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
)

// NewRouter wires the conversion endpoints. gatherer may be nil when metrics
// are disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc conversion.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
	)

	r.NotFound(controllers.NotFound(logg))
	r.MethodNotAllowed(controllers.MethodNotAllowed(logg))

	r.Get("/", controllers.Index())
	r.Post("/convert", controllers.Convert(svc, logg))
	r.Post("/convert/escaped", controllers.ConvertEscaped(svc, logg))
	r.Post("/reverse", controllers.Reverse(svc, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
