package server

import (
	"net/http"
)

// HealthzHandler reports liveness without touching the backend
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func (s *Server) RedirectHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectSuccess(w, r, path)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, "not_found", s.pageData(r, "Page Not Found", r.URL.Path))
	}
}

// UnauthorizedHandler is served for every route when the session role is unknown
func (s *Server) UnauthorizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusForbidden, "unauthorized", s.pageData(r, "Unauthorized", nil))
	}
}
