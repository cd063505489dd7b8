package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/square"
	"github.com/storekit/storefront-cloud/internal/statuscache"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// DefaultStatusPollInterval is how often the WebSocket status stream
// re-evaluates the schedule when not configured.
const DefaultStatusPollInterval = 15 * time.Minute

// Server represents the HTTP server with all dependencies.
type Server struct {
	router      *chi.Mux
	services    *Services
	db          *db.Client
	cache       *statuscache.Cache
	rateLimiter *RateLimiter
	config      *Config
}

// Config holds all configuration for the server.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisAddr          string
	SquareToken        string
	SquareBaseURL      string
	LogLevel           string
	StatusPollInterval time.Duration
}

// NewServer creates and configures a new server instance.
// It initializes the database client, status cache, Square client, services,
// and sets up all routes.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.StatusPollInterval <= 0 {
		cfg.StatusPollInterval = DefaultStatusPollInterval
	}

	dbClient, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	// Redis is optional; with no address configured the cache is a no-op
	// and every status request recomputes.
	cache, err := statuscache.New(context.Background(), cfg.RedisAddr, statuscache.DefaultTTL)
	if err != nil {
		dbClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var squareClient SquareClient
	if cfg.SquareToken != "" {
		squareClient = square.New(cfg.SquareToken, cfg.SquareBaseURL)
	}

	services := &Services{
		Store:        NewStoreService(dbClient, cache),
		Hours:        NewHoursService(dbClient, cache),
		Item:         NewItemService(dbClient, squareClient),
		Review:       NewReviewService(dbClient),
		Tier:         NewTierService(dbClient, cache),
		Organization: NewOrganizationService(dbClient),
		Admin:        NewAdminService(dbClient, cache),
		DB:           dbClient,
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	rateLimiter := NewRateLimiter()

	s := &Server{
		router:      router,
		services:    services,
		db:          dbClient,
		cache:       cache,
		rateLimiter: rateLimiter,
		config:      cfg,
	}

	RegisterRoutes(router, services, rateLimiter)

	// WebSocket status stream, registered via chi because upgrades bypass
	// huma's response handling.
	router.Route("/v1/stores/{id}/status/ws", func(r chi.Router) {
		r.Use(AuthMiddleware(dbClient))
		r.Use(rateLimiter.Middleware())
		r.Use(MaintenanceMiddleware(dbClient))
		r.Get("/", s.handleStatusStream)
	})

	return s, nil
}

// handleStatusStream wraps the WebSocket status handler to extract the store
// ID and apply the tenant scope check before upgrading.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteErrorFromStandard(w, fmt.Errorf("%w: invalid store ID", ErrBadRequest))
		return
	}

	if !tier.CanBypassRestrictions(GetActor(r.Context())) {
		tenantID, ok := GetTenantID(r.Context())
		if !ok || tenantID != storeID {
			WriteErrorFromStandard(w, ErrNotFound)
			return
		}
	}

	store, err := s.db.GetTenant(r.Context(), storeID)
	if err != nil {
		WriteErrorFromStandard(w, ErrNotFound)
		return
	}

	s.services.Store.StreamStatus(w, r, store, s.config.StatusPollInterval)
}

// Router returns the chi router instance for use with http.Server.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// DB returns the underlying database client, used by main for migrations.
func (s *Server) DB() *db.Client {
	return s.db
}

// Close gracefully shuts down the server by closing its clients.
func (s *Server) Close() error {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
