package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/crestline/meetflow/internal/api/handlers"
	"github.com/crestline/meetflow/internal/api/middleware"
	"github.com/crestline/meetflow/internal/pipeline"
	"github.com/crestline/meetflow/internal/queue"
)

type Router struct {
	mux     *chi.Mux
	db      *pgxpool.Pool
	redis   *redis.Client
	svc     *pipeline.Service
	qclient *queue.Client
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, svc *pipeline.Service, qc *queue.Client) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		db:      db,
		redis:   rdb,
		svc:     svc,
		qclient: qc,
	}
}

// endpoints is the self-describing listing served on unmatched routes.
var endpoints = map[string]string{
	"POST /parse":           "parse + segment one meeting {metadataId?, firefliesId?}",
	"POST /parse-pending":   "sweep jobs at raw_ingested",
	"POST /embed":           "chunk + embed one meeting {metadataId?, firefliesId?}",
	"POST /embed-pending":   "sweep jobs at segmented",
	"POST /extract":         "extract decisions/risks/tasks/opportunities {metadataId?, firefliesId?}",
	"POST /extract-pending": "sweep jobs at embedded",
	"POST /parse-async":     "enqueue the parse stage as a background task",
	"POST /embed-async":     "enqueue the embed stage as a background task",
	"POST /extract-async":   "enqueue the extract stage as a background task",
	"GET /health":           "liveness",
	"GET /readyz":           "readiness (database, redis)",
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/health", health.Health)
	r.Get("/readyz", health.Readyz)

	ph := handlers.NewPipelineHandler(rt.svc)
	r.Post("/parse", ph.Parse)
	r.Post("/parse-pending", ph.ParsePending)
	r.Post("/embed", ph.Embed)
	r.Post("/embed-pending", ph.EmbedPending)
	r.Post("/extract", ph.Extract)
	r.Post("/extract-pending", ph.ExtractPending)

	if rt.qclient != nil {
		qh := handlers.NewQueueHandler(rt.qclient)
		r.Post("/parse-async", qh.ParseAsync)
		r.Post("/embed-async", qh.EmbedAsync)
		r.Post("/extract-async", qh.ExtractAsync)
	}

	r.NotFound(describeEndpoints)
	r.MethodNotAllowed(describeEndpoints)

	return r
}

func describeEndpoints(w http.ResponseWriter, r *http.Request) {
	handlers.WriteEndpointListing(w, handlers.WorkerName, endpoints)
}
