package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// PageData is the model every page is rendered with. Content holds the page specific part.
type PageData struct {
	AppName     string
	Title       string
	Nav         []NavLink
	Session     session.Session
	UserLabel   string
	LoggedIn    bool
	CSRFField   template.HTML
	Error       string
	Flash       string
	FieldErrors validation.FieldErrors
	Content     any
}

var navByTree = map[session.Tree][]NavLink{
	session.TreeLoggedOut: {
		{Label: "Login", Href: RouteLogin},
		{Label: "Register", Href: RouteRegister},
	},
	session.TreeAdmin: {
		{Label: "Movies", Href: RouteMovieList},
		{Label: "Add Film", Href: RouteAddFilm},
		{Label: "Shows", Href: RouteShowList},
		{Label: "Screens", Href: RouteScreenList},
		{Label: "Theatres", Href: RouteTheatreList},
		{Label: "Bookings", Href: RouteBookingList},
		{Label: "Tickets", Href: RouteTicketList},
		{Label: "Users", Href: RouteUserList},
		{Label: "Book Tickets", Href: RouteMovieSelection},
		{Label: "Profile", Href: RouteUserInfo},
	},
	session.TreeUser: {
		{Label: "Book Tickets", Href: RouteMovieSelection},
		{Label: "Profile", Href: RouteUserInfo},
	},
}

func (s *Server) pageData(r *http.Request, title string, content any) PageData {
	sess := sessionFromContext(r.Context())

	var nav []NavLink
	for _, link := range navByTree[sess.Tree()] {
		link.Active = link.Href == r.URL.Path
		nav = append(nav, link)
	}

	data := PageData{
		AppName:   s.config.GetAppName(),
		Title:     title,
		Nav:       nav,
		Session:   sess,
		LoggedIn:  sess.LoggedIn,
		CSRFField: csrf.TemplateField(r),
		Error:     r.URL.Query().Get("error"),
		Flash:     r.URL.Query().Get("success"),
		Content:   content,
	}
	if sess.LoggedIn {
		data.UserLabel = fmt.Sprintf("User ID: %s (%s)", sess.WebUserID, sess.Role)
	}
	return data
}

// render executes the page into a buffer first so a template failure never
// leaves a half written response.
func (s *Server) render(w http.ResponseWriter, status int, page string, data PageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		log.Err(err).Str("page", page).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page, title string, content any) {
	s.render(w, http.StatusOK, page, s.pageData(r, title, content))
}

// renderError shows msg on the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := s.pageData(r, http.StatusText(status), nil)
	data.Error = msg
	s.render(w, status, "error", data)
}
