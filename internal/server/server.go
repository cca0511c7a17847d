package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taiiii123/discord-billing-notify/pkg/model"
	"github.com/taiiii123/discord-billing-notify/pkg/report"
)

// Runner builds and sends billing reports.
type Runner interface {
	Build(ctx context.Context, today time.Time) (*report.Report, error)
	Run(ctx context.Context, today time.Time) (*report.Report, error)
}

// Server exposes the report pipeline to HTTP schedulers.
type Server struct {
	runner Runner
	mux    *http.ServeMux
	logger *slog.Logger
	now    func() time.Time
}

// NewServer creates an HTTP trigger server.
func NewServer(runner Runner, logger *slog.Logger) *Server {
	s := &Server{
		runner: runner,
		mux:    http.NewServeMux(),
		logger: logger,
		now:    time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/notify", s.handleNotify)
	s.mux.HandleFunc("GET /api/v1/preview", s.handlePreview)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type runResponse struct {
	*report.Report
	Delivered     bool   `json:"delivered"`
	DeliveryError string `json:"delivery_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	today, ok := s.today(w, r)
	if !ok {
		return
	}

	rep, err := s.runner.Run(ctx, today)
	if err != nil {
		s.logger.Error("run report", "error", err)
		http.Error(w, "billing data unavailable", http.StatusBadGateway)
		return
	}

	resp := runResponse{Report: rep}
	if rep.Delivery != nil {
		resp.Delivered = rep.Delivery.Delivered()
		if rep.Delivery.Err != nil {
			resp.DeliveryError = rep.Delivery.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	today, ok := s.today(w, r)
	if !ok {
		return
	}

	rep, err := s.runner.Build(ctx, today)
	if err != nil {
		s.logger.Error("build report", "error", err)
		http.Error(w, "billing data unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// today reads the optional ?date=YYYY-MM-DD override.
func (s *Server) today(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now(), true
	}
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
