package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/playlytics/kpiengine/pkg/common"
	"github.com/playlytics/kpiengine/pkg/engine"
	"github.com/sirupsen/logrus"
)

// HTTPServer serves the report API.
type HTTPServer struct {
	server  *http.Server
	port    int
	manager *engine.Manager
}

// NewHTTPServer creates a new report API server instance.
func NewHTTPServer(port int, manager *engine.Manager) *HTTPServer {
	return &HTTPServer{
		port:    port,
		manager: manager,
	}
}

// reportSummary is the list-endpoint row.
type reportSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	GroupBy string `json:"groupBy,omitempty"`
}

// Setup configures routes and middleware.
func (s *HTTPServer) Setup() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/reports", func(r chi.Router) {
		r.Get("/", s.handleListReports)
		r.Get("/{reportID}", s.handleGetReport)
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: r,
	}

	return nil
}

// Start begins serving the report API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("report API listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("report API server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the report API server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down report API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("report API server stopped")
	return nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports := s.manager.Reports()
	summaries := make([]reportSummary, 0, len(reports))
	for _, rep := range reports {
		cfg := rep.Config()
		summaries = append(summaries, reportSummary{
			ID:      rep.ID(),
			Name:    rep.Name(),
			Type:    cfg.Type,
			GroupBy: cfg.GroupBy,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *HTTPServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	scope := common.NewScope(r.Context(), "api.get_report")
	defer scope.Finish()
	scope.AddBaggage("report_id", reportID)

	table, err := s.manager.Run(scope.Ctx, reportID, time.Now().UTC())
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("report %s request failed: %v", reportID, err)

		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrReportNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, table)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}
