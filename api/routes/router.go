package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carbonlabs/carbon-backend/api/controllers"
	"github.com/carbonlabs/carbon-backend/api/middleware"
	"github.com/carbonlabs/carbon-backend/internal/catalog"
	"github.com/carbonlabs/carbon-backend/internal/uploads"
	"github.com/carbonlabs/carbon-backend/pkg/config"
	"github.com/carbonlabs/carbon-backend/pkg/logger"
	"github.com/carbonlabs/carbon-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers. Clients are
// constructed once in cmd/api and shared across requests.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	UploadService uploads.Service
	CatalogStore  catalog.Store
	HTTPMetrics   *metrics.HTTPMetrics
	Registry      *prometheus.Registry
	ReadyChecks   map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.ReadyChecks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/upload", func(r chi.Router) {
		r.Post("/", controllers.SubmitProduct(deps.UploadService, deps.Logger))
		r.Get("/", controllers.ListProducts(deps.CatalogStore, deps.Logger))
		r.Get("/{id}", controllers.GetProduct(deps.CatalogStore, deps.Logger))
	})

	return r
}
