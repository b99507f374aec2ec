package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kyle/bowling-center-server/internal/api/handlers"
	"github.com/kyle/bowling-center-server/internal/api/middleware"
	"github.com/kyle/bowling-center-server/internal/lanenet"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/kyle/bowling-center-server/internal/notify"
	"github.com/kyle/bowling-center-server/internal/repository"
	"github.com/kyle/bowling-center-server/internal/service"
)

type Deps struct {
	Auth      *service.AuthService
	Engine    *league.Engine
	Registry  *lanenet.Registry
	Sync      *lanenet.Synchronizer
	Hub       *notify.Hub
	Publisher notify.Publisher
	Repos     *repository.Repositories
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	leagueHandler := handlers.NewLeagueHandler(deps.Engine)
	bowlerHandler := handlers.NewBowlerHandler(deps.Repos.Bowler)
	laneHandler := handlers.NewLaneHandler(deps.Registry, deps.Sync)
	bookingHandler := handlers.NewBookingHandler(deps.Repos.Booking, deps.Publisher)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.Auth))
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Auth))

			// League routes
			r.Route("/leagues", func(r chi.Router) {
				r.Post("/", leagueHandler.Create)
				r.Get("/", leagueHandler.List)
				r.Get("/{leagueId}", leagueHandler.Get)
				r.Post("/{leagueId}/teams", leagueHandler.AddTeam)
				r.Post("/{leagueId}/schedule", leagueHandler.GenerateSchedule)
				r.Get("/{leagueId}/standings", leagueHandler.GetStandings)
				r.Post("/{leagueId}/prebowls", leagueHandler.RecordPreBowl)
				r.Post("/{leagueId}/absent-score", leagueHandler.AbsentScore)
			})

			// Bowler routes
			r.Route("/bowlers", func(r chi.Router) {
				r.Post("/", bowlerHandler.Create)
				r.Get("/", bowlerHandler.List)
				r.Get("/{bowlerId}", bowlerHandler.Get)
				r.Put("/{bowlerId}", bowlerHandler.Update)
				r.Delete("/{bowlerId}", bowlerHandler.Delete)
			})

			// Lane routes
			r.Route("/lanes", func(r chi.Router) {
				r.Get("/", laneHandler.List)
				r.Get("/{laneId}/game", laneHandler.GetGame)
				r.Post("/{laneId}/command", laneHandler.Command)
				r.Get("/{laneId}/bookings", bookingHandler.ListByLane)
				r.Get("/{laneId}/availability", bookingHandler.Availability)
			})

			// Booking routes
			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", bookingHandler.Create)
				r.Delete("/{bookingId}", bookingHandler.Delete)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
