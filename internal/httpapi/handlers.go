package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/gamingemporium/popularity/internal/config"
	"github.com/gamingemporium/popularity/internal/core"
	"github.com/gamingemporium/popularity/internal/metrics"
	"github.com/gamingemporium/popularity/internal/store"
)

type Router struct {
	cfg     config.Config
	svc     *core.Service
	limiter *rateLimiter
}

func NewRouter(cfg config.Config, svc *core.Service) http.Handler {
	r := chi.NewRouter()
	// Logging middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", dur).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	// The API is called cross-origin from the site pages; GET/OPTIONS
	// only, preflight answered by the middleware.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	api := &Router{
		cfg:     cfg,
		svc:     svc,
		limiter: newRateLimiter(cfg.IngestRateRPS, cfg.IngestRateBurst),
	}

	r.MethodFunc(http.MethodGet, "/healthz", api.handleHealth)
	r.MethodFunc(http.MethodGet, "/readyz", api.handleReady)

	// Metrics
	r.MethodFunc(http.MethodGet, "/metrics", metrics.Handler)

	// Public endpoints
	r.Group(func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/api/click", api.handleClick)
		r.MethodFunc(http.MethodGet, "/api/view", api.handleView)
		r.MethodFunc(http.MethodGet, "/api/top", api.handleTop)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "not_found", http.StatusNotFound)
	})

	return r
}

type okResp struct {
	OK bool `json:"ok"`
}

type errResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type topResp struct {
	OK   bool             `json:"ok"`
	Mode string           `json:"mode"`
	Top  []store.TopEntry `json:"top"`
}

func (rt *Router) handleClick(w http.ResponseWriter, r *http.Request) {
	rt.handleEvent(w, r, rt.svc.RecordClick)
}

func (rt *Router) handleView(w http.ResponseWriter, r *http.Request) {
	rt.handleEvent(w, r, rt.svc.RecordView)
}

func (rt *Router) handleEvent(w http.ResponseWriter, r *http.Request, record func(ctx context.Context, id string) error) {
	if !rt.limiter.Allow(clientIP(r)) {
		metrics.RateLimited.Inc()
		writeError(w, "rate_limited", http.StatusTooManyRequests)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	err := record(r.Context(), id)
	switch {
	case errors.Is(err, core.ErrMissingID):
		metrics.IngestRejected.WithLabelValues("missing_id").Inc()
		writeError(w, "missing_id", http.StatusBadRequest)
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("id", id).Msg("record event")
		writeError(w, "server_error", http.StatusInternalServerError)
	default:
		writeJSON(w, okResp{OK: true}, http.StatusOK)
	}
}

func (rt *Router) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := core.TopQuery{
		Mode:  core.ParseMode(q.Get("mode")),
		Limit: clampInt(q.Get("limit"), core.DefaultLimit, 1, core.MaxLimit),
		Days:  clampInt(q.Get("days"), core.DefaultDays, 1, core.MaxDays),
	}

	top, err := rt.svc.Top(r.Context(), query)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("mode", string(query.Mode)).Msg("top query")
		writeError(w, "server_error", http.StatusInternalServerError)
		return
	}
	if top == nil {
		top = []store.TopEntry{}
	}
	writeJSON(w, topResp{OK: true, Mode: string(query.Mode), Top: top}, http.StatusOK)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (rt *Router) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// clampInt parses raw, falling back to def when absent or non-numeric
// and clamping numeric values into [lo, hi].
func clampInt(raw string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	// Ranking results change constantly; never let intermediaries cache
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code string, status int) {
	writeJSON(w, errResp{OK: false, Error: code}, status)
}

func clientIP(r *http.Request) string {
	// Try X-Forwarded-For or Real-IP first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
