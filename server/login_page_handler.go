package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/rs/zerolog/log"
)

const msgLoginFailed = "Login failed. Please check your credentials and try again."

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	PhoneNumber string // Preserve phone number on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{PhoneNumber: r.URL.Query().Get("phoneNumber")}
		s.renderPage(w, r, "login", "Login", data)
	}
}

// LoginSubmissionHandler exchanges the credentials for a token and hands it to the gate
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		creds := model.Credentials{
			PhoneNumber: strings.TrimSpace(r.FormValue("phoneNumber")),
			Password:    r.FormValue("password"),
		}
		if errs := validation.Struct(s.validate, creds); errs != nil {
			data := s.pageData(r, "Login", LoginPageData{PhoneNumber: creds.PhoneNumber})
			data.FieldErrors = errs
			s.render(w, http.StatusUnprocessableEntity, "login", data)
			return
		}

		token, err := s.api.Authenticate(r.Context(), creds)
		if err != nil {
			log.Debug().Err(err).Msg("Authentication failed")
			s.renderLoginError(w, r, msgLoginFailed, creds.PhoneNumber)
			return
		}

		sess, err := s.gate.Login(r.Context(), browserIDFromContext(r.Context()), token)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected token from backend")
			s.renderLoginError(w, r, msgLoginFailed, creds.PhoneNumber)
			return
		}

		log.Info().Str("webUserId", sess.WebUserID).Str("role", string(sess.Role)).Msg("User logged in")
		redirectSuccess(w, r, RouteHome)
	}
}

// LogoutHandler erases the persisted token. The booking draft is left alone.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.gate.Logout(r.Context(), browserIDFromContext(r.Context())); err != nil {
			log.Err(err).Msg("Failed to clear session")
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, phoneNumber string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if phoneNumber != "" {
		redirectURL += "&phoneNumber=" + url.QueryEscape(phoneNumber)
	}

	redirectSuccess(w, r, redirectURL)
}
