package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"villetta/internal/cache"
	"villetta/internal/models"
	"villetta/internal/pricing"
)

// Engine is the pricing engine surface the API exposes. *pricing.Engine
// satisfies it; handler tests supply stubs.
type Engine interface {
	CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (bool, string, error)
	GetAvailabilityCalendar(ctx context.Context, propertyID int64, start, end time.Time) (map[string]bool, error)
	CalculatePricing(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (*models.PricingResult, error)
	GetPricingCalendar(ctx context.Context, propertyID int64, start, end time.Time) (map[string]int64, error)
}

// PropertyGetter resolves property records for the export endpoint.
type PropertyGetter interface {
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
}

// Options configures the HTTP server.
type Options struct {
	Port            int
	APIKey          string
	MaxCalendarDays int
	RateLimitRPS    float64
	RateLimitBurst  int
}

// HTTPServer fronts the pricing engine with a JSON API.
type HTTPServer struct {
	engine     Engine
	properties PropertyGetter
	cache      *cache.Cache
	opts       Options
	logger     *zerolog.Logger
	limiter    *rate.Limiter
	server     *http.Server
}

// NewHTTPServer wires routes and middleware. The cache may be disabled (see
// cache.New); handlers then compute every request.
func NewHTTPServer(engine Engine, properties PropertyGetter, responseCache *cache.Cache, opts Options, logger *zerolog.Logger) *HTTPServer {
	if opts.MaxCalendarDays <= 0 {
		opts.MaxCalendarDays = 90
	}

	s := &HTTPServer{
		engine:     engine,
		properties: properties,
		cache:      responseCache,
		opts:       opts,
		logger:     logger,
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS)
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/availability/check", s.withMiddleware(s.handleAvailabilityCheck))
	mux.HandleFunc("/api/v1/availability/calendar", s.withMiddleware(s.handleAvailabilityCalendar))
	mux.HandleFunc("/api/v1/pricing/quote", s.withMiddleware(s.handlePricingQuote))
	mux.HandleFunc("/api/v1/pricing/calendar", s.withMiddleware(s.handlePricingCalendar))
	mux.HandleFunc("/api/v1/pricing/calendar/export", s.withMiddleware(s.handlePricingCalendarExport))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the configured mux, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the server until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// withMiddleware stacks request-id, auth and rate limiting around a handler.
func (s *HTTPServer) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		if s.opts.APIKey != "" && r.Header.Get("X-Api-Key") != s.opts.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next(w, r)
	}
}

// writeEngineError maps engine errors onto HTTP statuses.
func (s *HTTPServer) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrPropertyNotFound):
		writeError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, pricing.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, "pricing backend unavailable")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
