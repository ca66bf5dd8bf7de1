// Package server exposes the document analysis HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/fault"
	"github.com/mineworks/paperminer/internal/model"
	"github.com/mineworks/paperminer/internal/report"
)

// 50 MB multipart memory ceiling; larger uploads spill to temp files.
const maxMultipartMemory = 50 << 20

// Ingestor runs the analysis paths and serves stored records. Satisfied by
// *pipeline.Pipeline.
type Ingestor interface {
	FromPDF(ctx context.Context, filename string, content io.Reader, mode model.Mode) (*model.AnalysisRecord, error)
	FromText(ctx context.Context, text string, mode model.Mode) (*model.AnalysisRecord, error)
	FromWeb(ctx context.Context, url string) (*model.AnalysisRecord, error)
	Get(ctx context.Context, id string) (*model.AnalysisRecord, error)
	History(ctx context.Context) ([]model.AnalysisRecord, error)
}

// Renderer produces PDF report bytes. Satisfied by *report.Renderer.
type Renderer interface {
	Render(rec *model.AnalysisRecord) ([]byte, error)
	ModelName() string
}

// Server routes analysis API requests.
type Server struct {
	ingestor    Ingestor
	renderer    Renderer
	corsOrigins []string
}

// New creates a Server.
func New(ingestor Ingestor, renderer Renderer, corsOrigins []string) *Server {
	return &Server{
		ingestor:    ingestor,
		renderer:    renderer,
		corsOrigins: corsOrigins,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Model-Author"},
		MaxAge:         300,
	}))

	r.Post("/upload-pdf", wrap(s.handleUploadPDF))
	r.Post("/upload-text", wrap(s.handleUploadText))
	r.Post("/upload-web", wrap(s.handleUploadWeb))
	r.Get("/history", wrap(s.handleHistory))
	r.Get("/paper/{id}", wrap(s.handlePaper))
	r.Get("/export-summary/{id}", wrap(s.handleExport))
	r.Get("/health", wrap(s.handleHealth))

	return r
}

// wrap translates handler errors into JSON error responses.
func wrap(h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status := fault.HTTPStatus(err)
			zap.L().Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return fault.Wrap(fault.Validation, err, "server: parse multipart form")
	}

	mode, err := model.ParseMode(r.FormValue("mode"), model.ModeScientificPaper)
	if err != nil {
		return err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return fault.Wrap(fault.Validation, err, "server: missing file field")
	}
	defer file.Close()

	rec, err := s.ingestor.FromPDF(r.Context(), header.Filename, file, mode)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, rec.Response())
	return nil
}

func (s *Server) handleUploadText(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Text string `json:"text"`
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return fault.Wrap(fault.Validation, err, "server: decode request body")
	}

	mode, err := model.ParseMode(req.Mode, model.ModeLegalDocument)
	if err != nil {
		return err
	}

	rec, err := s.ingestor.FromText(r.Context(), req.Text, mode)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, rec.Response())
	return nil
}

func (s *Server) handleUploadWeb(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		URL  string `json:"url"`
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return fault.Wrap(fault.Validation, err, "server: decode request body")
	}

	rec, err := s.ingestor.FromWeb(r.Context(), req.URL)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, rec.Response())
	return nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) error {
	records, err := s.ingestor.History(r.Context())
	if err != nil {
		return err
	}

	out := make([]map[string]any, len(records))
	for i := range records {
		out[i] = records[i].Summary()
	}

	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) handlePaper(w http.ResponseWriter, r *http.Request) error {
	rec, err := s.ingestor.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if rec == nil {
		return fault.New(fault.NotFound, "paper not found")
	}

	writeJSON(w, http.StatusOK, rec.Detail())
	return nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) error {
	rec, err := s.ingestor.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if rec == nil {
		return fault.New(fault.NotFound, "paper not found")
	}

	pdfBytes, err := s.renderer.Render(rec)
	if err != nil {
		return fault.Wrap(fault.Internal, err, "server: render report")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(rec)))
	w.Header().Set("X-Model-Author", s.renderer.ModelName())
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes) //nolint:errcheck
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
