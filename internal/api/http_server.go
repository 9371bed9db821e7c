package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"prokat/internal/config"
	"prokat/internal/models"
	"prokat/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ReportSource is the part of the rental service the API exposes: reads plus
// the externally driven item status change.
type ReportSource interface {
	SetItemStatus(ctx context.Context, itemID int64, status string) error
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListAvailable(ctx context.Context) ([]models.InventoryItem, error)
	ReportRevenue(ctx context.Context, start, end time.Time) (*models.RevenueReport, error)
	ReportInventoryByStatus(ctx context.Context) ([]models.InventoryCount, error)
	ReportPopular(ctx context.Context) ([]models.PopularItem, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer exposes inventory and reports over HTTP.
type HTTPServer struct {
	cfg     config.APIConfig
	reports ReportSource
	db      Pinger
	server  *http.Server
	auth    *HTTPAuth
	logger  *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, reports ReportSource, db Pinger, logger *zerolog.Logger) *HTTPServer {
	l := logger.With().Str("component", "http_api").Logger()

	mux := http.NewServeMux()
	srv := &HTTPServer{cfg: cfg, reports: reports, db: db, logger: &l}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/inventory", srv.handleInventory)
	mux.HandleFunc("/api/v1/inventory/status", srv.handleItemStatus)
	mux.HandleFunc("/api/v1/reports/revenue", srv.handleRevenue)
	mux.HandleFunc("/api/v1/reports/inventory", srv.handleInventoryReport)
	mux.HandleFunc("/api/v1/reports/popular", srv.handlePopular)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	handler := loggingMiddleware(srv.logger, srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))

	var (
		items []models.InventoryItem
		err   error
	)
	if status == models.StatusAvailable {
		items, err = s.reports.ListAvailable(r.Context())
	} else {
		items, err = s.reports.ListItems(r.Context())
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if status != "" && status != models.StatusAvailable {
		filtered := items[:0]
		for _, item := range items {
			if item.Status == status {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type statusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// handleItemStatus переводит позицию в другой статус (например, maintenance).
// Переход не проверяется; несуществующий id ничего не меняет.
func (s *HTTPServer) handleItemStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.reports.SetItemStatus(r.Context(), req.ID, strings.TrimSpace(req.Status)); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("item_id", req.ID).Str("status", req.Status).Msg("item status changed")
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleRevenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := parseDate(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	report, err := s.reports.ReportRevenue(r.Context(), start, end)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start": start.Format(models.DateLayout),
		"end":   end.Format(models.DateLayout),
		"total": report.Total,
		"count": report.Count,
	})
}

func (s *HTTPServer) handleInventoryReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, err := s.reports.ReportInventoryByStatus(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.InventoryCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *HTTPServer) handlePopular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	items, err := s.reports.ReportPopular(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if items == nil {
		items = []models.PopularItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func parseDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format; expected YYYY-MM-DD", name)
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
