package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tgshopai/tgshop-backend/api/controllers"
	"github.com/tgshopai/tgshop-backend/api/middleware"
	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
	"github.com/tgshopai/tgshop-backend/pkg/metrics"
)

// NewRouter assembles the HTTP surface: health probes, metrics, the public
// catalog, and the JWT-guarded admin catalog.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	catalogRepo *catalog.Repository,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.PublicListProducts(catalogRepo, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(cfg, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))
			r.Get("/products", controllers.AdminListProducts(catalogRepo, logg))
			r.Post("/products", controllers.AdminCreateProduct(catalogRepo, logg))
			r.Patch("/products/{id}", controllers.AdminUpdateProduct(catalogRepo, logg))
		})
	})

	return r
}
