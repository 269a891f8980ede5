package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/booking"
	"github.com/jrsteele09/go-cinema-booking/internal/config"
	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	trees    map[session.Tree]*http.ServeMux
	routes   []string
	config   config.Config
	api      *backend.Client
	gate     *session.Gate
	wizard   *booking.Service
	validate *validator.Validate
	pages    map[string]*template.Template
}

func New(config config.Config, api *backend.Client, gate *session.Gate, wizard *booking.Service) (*Server, error) {
	pages, err := ParsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		trees:    make(map[session.Tree]*http.ServeMux),
		config:   config,
		api:      api,
		gate:     gate,
		wizard:   wizard,
		validate: validation.New(),
		pages:    pages,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// RegisterTreeRoute adds a route that is only reachable by sessions resolving to tree.
func (s *Server) RegisterTreeRoute(tree session.Tree, pattern string, handler http.HandlerFunc) {
	mux, ok := s.trees[tree]
	if !ok {
		mux = http.NewServeMux()
		s.trees[tree] = mux
	}
	s.routes = append(s.routes, pattern+" ["+tree.String()+"]")
	mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path := splitPattern(route)
		logRoute(method, path)
	}
}

// splitPattern separates the method of a ServeMux pattern from its path.
func splitPattern(pattern string) (string, string) {
	parts := strings.SplitN(pattern, " ", 2)
	if len(parts) > 1 && !strings.HasPrefix(parts[0], "/") {
		return parts[0], parts[1]
	}
	return "", pattern
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
