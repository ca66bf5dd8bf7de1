package clock

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/fault"
)

// Handler builds the dashboard router.
func (s *Service) Handler(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/locations", wrap(s.handleLocations))
	r.Get("/earth/{location}", wrap(s.handleEarth))
	r.Get("/mars/{location}", wrap(s.handleMars))
	r.Get("/health", wrap(handleHealth))

	return r
}

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

func (s *Service) handleLocations(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, s.LocationNames())
	return nil
}

func (s *Service) handleEarth(w http.ResponseWriter, r *http.Request) error {
	data, err := s.Earth(r.Context(), chi.URLParam(r, "location"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, data)
	return nil
}

func (s *Service) handleMars(w http.ResponseWriter, r *http.Request) error {
	data, err := s.Mars(r.Context(), chi.URLParam(r, "location"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, data)
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
