package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/uniforms-backend/api/controllers"
	"github.com/angelmondragon/uniforms-backend/api/middleware"
	"github.com/angelmondragon/uniforms-backend/internal/transfers"
	"github.com/angelmondragon/uniforms-backend/pkg/config"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
	"github.com/angelmondragon/uniforms-backend/pkg/metrics"
	"github.com/angelmondragon/uniforms-backend/pkg/pagination"
	"github.com/angelmondragon/uniforms-backend/pkg/redis"
)

// RedisStore is the redis surface the router needs: idempotency records and readiness.
type RedisStore interface {
	redis.IdempotencyStore
	redis.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	transferService transfers.Service,
	references controllers.ReferenceChecker,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisStore,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	limits := pagination.Limits{
		DefaultPerPage: cfg.Pagination.DefaultPerPage,
		MaxPerPage:     cfg.Pagination.MaxPerPage,
	}

	r.Route("/api/v1/uniforms/transfers", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisStore, logg))

		r.Get("/", controllers.ListTransfers(transferService, references, limits, logg))
		r.Post("/", controllers.CreateTransfer(transferService, references, logg))
		r.Delete("/", controllers.BulkDeleteTransfers(transferService, references, logg))

		r.Route("/{transferId}", func(r chi.Router) {
			r.Get("/", controllers.GetTransfer(transferService, references, logg))
			r.Put("/", controllers.UpdateTransfer(transferService, references, logg))
			r.Delete("/", controllers.DeleteTransfer(transferService, references, logg))
			r.Post("/post", controllers.PostTransfer(transferService, references, logg))

			r.Post("/lines", controllers.CreateTransferLine(transferService, references, logg))
			r.Put("/lines/{lineNum}", controllers.UpdateTransferLine(transferService, references, logg))
			r.Delete("/lines/{lineNum}", controllers.DeleteTransferLine(transferService, references, logg))
		})
	})

	return r
}
