package config

import "time"

type Session struct{}

var _ SessionConfig = Session{}

// GetTokenStorageKey is the key prefix the bearer token is persisted under
func (Session) GetTokenStorageKey() string {
	return GetEnv("TOKEN_STORAGE_KEY", "jwtToken")
}

func (Session) GetDraftStorageKey() string {
	return GetEnv("DRAFT_STORAGE_KEY", "bookingDraft")
}

func (Session) GetBrowserCookieName() string {
	return "booking_browser_id"
}

func (Session) GetSecureCookies() bool {
	return GetEnvBool("SESSION_COOKIE_SECURE", false)
}

func (Session) GetMaxDraftAge() time.Duration {
	return GetEnvDuration("DRAFT_MAX_AGE", 2*time.Hour)
}
