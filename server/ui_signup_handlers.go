package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/rs/zerolog/log"
)

const (
	msgRegistered     = "User registered successfully!"
	msgRegisterFailed = "Failed to register user. Please try again later."
)

// RegisterPageHandler renders the sign up form. Self registration always creates a USER.
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, "register", "Register", model.User{Role: model.RoleUser})
	}
}

func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		user, errs := s.readRegistration(r)
		if errs != nil {
			user.Password = ""
			data := s.pageData(r, "Register", user)
			data.FieldErrors = errs
			s.render(w, http.StatusUnprocessableEntity, "register", data)
			return
		}

		if err := s.api.Register(r.Context(), user); err != nil {
			log.Err(err).Str("username", user.Username).Msg("Registration failed")
			user.Password = ""
			data := s.pageData(r, "Register", user)
			data.Error = msgRegisterFailed
			s.render(w, http.StatusBadGateway, "register", data)
			return
		}

		redirectWithFlash(w, r, RouteLogin, msgRegistered)
	}
}

func (s *Server) readRegistration(r *http.Request) (model.User, validation.FieldErrors) {
	user := model.User{
		FirstName:   strings.TrimSpace(r.FormValue("firstName")),
		LastName:    strings.TrimSpace(r.FormValue("lastName")),
		EmailID:     strings.TrimSpace(r.FormValue("emailId")),
		PhoneNumber: strings.TrimSpace(r.FormValue("phoneNumber")),
		Username:    strings.TrimSpace(r.FormValue("username")),
		Password:    r.FormValue("password"),
		Role:        model.RoleUser,
	}

	var errs validation.FieldErrors
	if age := strings.TrimSpace(r.FormValue("age")); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			errs = errs.Merge(validation.FieldErrors{"age": "must be a number"})
		}
		user.Age = n
	}

	errs = errs.Merge(validation.Struct(s.validate, user))
	errs = errs.Merge(validation.Var(s.validate, "phoneNumber", user.PhoneNumber, "len=10,numeric"))
	errs = errs.Merge(validation.Var(s.validate, "password", user.Password, "required,min=8"))
	return user, errs
}
