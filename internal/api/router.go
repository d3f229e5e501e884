package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/auth"
	"github.com/yumzoom/backend/internal/middleware"
)

// Router holds all handlers and creates the chi router
type Router struct {
	authHandler     *AuthHandler
	connHandler     *ConnectionHandler
	activityHandler *ActivityHandler
	recHandler      *RecommendationHandler
	collabHandler   *CollabHandler
	socialHandler   *SocialHandler
	healthHandler   *HealthHandler
	wsManager       *WebSocketManager
	jwtManager      *auth.JWTManager
	logger          *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	authHandler *AuthHandler,
	connHandler *ConnectionHandler,
	activityHandler *ActivityHandler,
	recHandler *RecommendationHandler,
	collabHandler *CollabHandler,
	socialHandler *SocialHandler,
	healthHandler *HealthHandler,
	wsManager *WebSocketManager,
	jwtManager *auth.JWTManager,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		connHandler:     connHandler,
		activityHandler: activityHandler,
		recHandler:      recHandler,
		collabHandler:   collabHandler,
		socialHandler:   socialHandler,
		healthHandler:   healthHandler,
		wsManager:       wsManager,
		jwtManager:      jwtManager,
		logger:          logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(chimiddleware.Compress(5))

	// Health and metrics endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.healthHandler.Health)
		r.Get("/ready", rt.healthHandler.Ready)
		r.Get("/live", rt.healthHandler.Live)
	})
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Token exchange (guarded by the exchange secret, not a bearer token)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", rt.authHandler.Token)
			r.Post("/refresh", rt.authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.jwtManager))

			r.Route("/connections", func(r chi.Router) {
				r.Post("/request", rt.connHandler.SendRequest)
				r.Post("/respond", rt.connHandler.RespondRequest)
				r.Post("/{id}/block", rt.connHandler.Block)
				r.Delete("/{id}", rt.connHandler.Remove)
				r.Get("/", rt.connHandler.GetConnections)
				r.Get("/requests", rt.connHandler.GetRequests)
				r.Get("/status/{userID}", rt.connHandler.Status)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Post("/", rt.activityHandler.Record)
				r.Get("/feed", rt.activityHandler.Feed)
				r.Get("/me", rt.activityHandler.Mine)
			})

			r.Route("/recommendations", func(r chi.Router) {
				r.Post("/", rt.recHandler.Send)
				r.Post("/{id}/read", rt.recHandler.MarkRead)
				r.Post("/{id}/accept", rt.recHandler.Accept)
				r.Get("/inbox", rt.recHandler.Inbox)
				r.Get("/outbox", rt.recHandler.Outbox)
			})

			r.Route("/collab/sessions", func(r chi.Router) {
				r.Post("/", rt.collabHandler.CreateSession)
				r.Get("/", rt.collabHandler.ListSessions)
				r.Get("/{id}", rt.collabHandler.GetDetails)
				r.Post("/{id}/options", rt.collabHandler.AddOption)
				r.Post("/{id}/votes", rt.collabHandler.CastVote)
				r.Get("/{id}/results", rt.collabHandler.GetResults)
				r.Post("/{id}/close", rt.collabHandler.Close)
				r.Post("/{id}/cancel", rt.collabHandler.Cancel)
			})

			r.Route("/social", func(r chi.Router) {
				r.Get("/settings", rt.socialHandler.GetSettings)
				r.Put("/settings", rt.socialHandler.UpdateSettings)
				r.Get("/stats", rt.socialHandler.GetStats)
				r.Put("/push-token", rt.socialHandler.SetPushToken)
			})

			r.Get("/ws", rt.wsManager.HandleWS)
		})
	})

	return r
}
