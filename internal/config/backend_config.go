package config

import (
	"strings"
	"time"
)

type Backend struct{}

var _ BackendConfig = Backend{}

// GetBackendURL returns the REST backend base URL without a trailing slash (e.g. "http://localhost:8080/api")
func (Backend) GetBackendURL() string {
	return strings.TrimRight(GetEnv("BACKEND_URL", "http://localhost:8080/api"), "/")
}

func (Backend) GetBackendTimeout() time.Duration {
	return GetEnvDuration("BACKEND_TIMEOUT", 10*time.Second)
}

// GetForwardCardSecurityFields controls whether expiryDate and cvv are sent with a booking.
func (Backend) GetForwardCardSecurityFields() bool {
	return GetEnvBool("FORWARD_CARD_SECURITY_FIELDS", false)
}
