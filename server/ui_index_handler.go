package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const msgUserInfoFailed = "Failed to fetch user info. Please try again later."

// UserInfoHandler renders the profile of the logged in user
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())

		user, err := s.api.GetUser(r.Context(), sess.UserID())
		if err != nil {
			log.Err(err).Str("webUserId", sess.WebUserID).Msg("Failed to fetch user info")
			s.renderError(w, r, http.StatusBadGateway, msgUserInfoFailed)
			return
		}

		s.renderPage(w, r, "profile", "User Info", user)
	}
}
