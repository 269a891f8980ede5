package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))

	// Everything else goes through the session gate to the tree of the session
	s.RegisterRouteHandler(RouteHome, ChainMiddleware(s.RouteTreeHandler(), s.HTMLMiddleWare(s.SessionGateMiddleware, s.CSRFMiddleware)...))

	s.initLoggedOutRoutes()
	s.initAdminRoutes()
	s.initUserRoutes()
	s.initUnauthorizedRoutes()
}

func (s *Server) initLoggedOutRoutes() {
	t := session.TreeLoggedOut
	s.RegisterTreeRoute(t, "GET "+RouteLogin, s.LoginPageHandler())
	s.RegisterTreeRoute(t, "POST "+RouteLogin, s.LoginSubmissionHandler())
	s.RegisterTreeRoute(t, "GET "+RouteRegister, s.RegisterPageHandler())
	s.RegisterTreeRoute(t, "POST "+RouteRegister, s.RegisterSubmissionHandler())
	s.RegisterTreeRoute(t, RouteHome, s.RedirectHandler(RouteLogin))
}

func (s *Server) initAdminRoutes() {
	t := session.TreeAdmin
	s.RegisterTreeRoute(t, "GET /{$}", s.RedirectHandler(RouteMovieList))
	s.registerSignedInRoutes(t)

	registerEntity(s, movieEntity())
	registerEntity(s, theatreEntity())
	registerEntity(s, screenEntity())
	registerEntity(s, showEntity())
	registerEntity(s, bookingEntity())
	registerEntity(s, ticketEntity())
	registerEntity(s, userEntity())
}

func (s *Server) initUserRoutes() {
	t := session.TreeUser
	s.RegisterTreeRoute(t, "GET /{$}", s.UserInfoHandler())
	s.registerSignedInRoutes(t)
}

// Only logging out is possible without a known role.
func (s *Server) initUnauthorizedRoutes() {
	t := session.TreeUnauthorized
	s.RegisterTreeRoute(t, RouteLogout, s.LogoutHandler())
	s.RegisterTreeRoute(t, RouteHome, s.UnauthorizedHandler())
}

// registerSignedInRoutes adds what admins and users share: profile, logout and the booking wizard.
func (s *Server) registerSignedInRoutes(t session.Tree) {
	s.RegisterTreeRoute(t, "GET "+RouteUserInfo, s.UserInfoHandler())
	s.RegisterTreeRoute(t, RouteLogout, s.LogoutHandler())
	s.RegisterTreeRoute(t, "GET "+RouteLogin, s.RedirectHandler(RouteHome))
	s.RegisterTreeRoute(t, "GET "+RouteRegister, s.RedirectHandler(RouteHome))

	s.RegisterTreeRoute(t, "GET "+RouteMovieSelection, s.MovieSelectionHandler())
	s.RegisterTreeRoute(t, "POST "+RouteMovieSelection, s.MovieSelectionSubmitHandler())
	s.RegisterTreeRoute(t, "GET "+RouteShowSelection, s.ShowSelectionHandler())
	s.RegisterTreeRoute(t, "POST "+RouteShowSelection, s.ShowSelectionSubmitHandler())
	s.RegisterTreeRoute(t, "GET "+RouteTicketSelection, s.TicketSelectionHandler())
	s.RegisterTreeRoute(t, "POST "+RouteTicketSelection, s.TicketSelectionSubmitHandler())
	s.RegisterTreeRoute(t, "GET "+RoutePayment, s.PaymentHandler())
	s.RegisterTreeRoute(t, "POST "+RoutePayment, s.PaymentSubmitHandler())
	s.RegisterTreeRoute(t, "GET "+RouteBookingSuccess, s.BookingSuccessHandler())
	s.RegisterTreeRoute(t, "GET "+RouteBookingPDF, s.BookingPDFHandler())

	s.RegisterTreeRoute(t, RouteHome, s.NotFoundHandler())
}

// RouteTreeHandler dispatches to the mux of the session's tree.
func (s *Server) RouteTreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree := sessionFromContext(r.Context()).Tree()
		mux, ok := s.trees[tree]
		if !ok {
			log.Error().Str("tree", tree.String()).Msg("No routes registered for tree")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		mux.ServeHTTP(w, r)
	}
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Error().Msgf("[%-19s] %s %s", displayMethod, path, errorString)
}
