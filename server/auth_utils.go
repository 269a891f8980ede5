package server

import (
	"net/http"
	"net/url"
)

// SetBrowserCookie stores the browser context id. It outlives any login so
// the token and draft can be found again after a reload.
func (s *Server) SetBrowserCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	isSecure := s.config.GetSecureCookies() || getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetBrowserCookieName(),
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   365 * 24 * 60 * 60,
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithFlash redirects to path showing msg as a success message
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	redirectSuccess(w, r, path+"?success="+url.QueryEscape(msg))
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
