package api

import (
	"disruption-replay-service/internal/api/handlers"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/ports"
	"disruption-replay-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Store       *domain.FixtureStore
	Dispatcher  *services.Dispatcher
	Engine      *services.ReplayEngine
	Gate        ports.SingleFlight
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	stateHandler := &handlers.StateHandler{Store: d.Store}
	disruptionHandler := &handlers.DisruptionHandler{Dispatcher: d.Dispatcher}
	replayHandler := &handlers.ReplayHandler{
		Store:      d.Store,
		Dispatcher: d.Dispatcher,
		Engine:     d.Engine,
		Gate:       d.Gate,
	}
	resourceHandler := &handlers.ResourceHandler{Store: d.Store, Dispatcher: d.Dispatcher}

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/initial-state", stateHandler.InitialState)
		r.Get("/risk-feed", stateHandler.RiskFeed)
		r.Post("/trigger-disruption", disruptionHandler.Trigger)
		r.Get("/disruptions/{scenario}/replay", replayHandler.Stream)
	})

	r.Get("/dcs", resourceHandler.DCs)
	r.Get("/stores", resourceHandler.Stores)
	r.Get("/trucks", resourceHandler.Trucks)
	r.Get("/shipments", resourceHandler.Shipments)
	r.Get("/events", resourceHandler.Events)
	r.Get("/simulate-risk/{shipmentId}", resourceHandler.SimulateRisk)

	return r
}
