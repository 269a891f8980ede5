package config

import (
	"crypto/sha256"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const csrfKeyInfo = "cinema-booking csrf"

type SecurityConfig interface {
	GetCSRFKey() []byte
	GetTrustedOrigins() TrustedOrigins
}

type Security struct{}

var _ SecurityConfig = Security{}

type TrustedOrigins []string

func (t TrustedOrigins) String() string {
	return strings.Join(t, ", ")
}

// GetCSRFKey derives the 32 byte authentication key from CSRF_KEY. It
// returns nil when no secret is set, which disables CSRF protection.
func (Security) GetCSRFKey() []byte {
	secret := GetEnv("CSRF_KEY", "")
	if secret == "" {
		return nil
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(csrfKeyInfo)), key); err != nil {
		return nil
	}
	return key
}

func (Security) GetTrustedOrigins() TrustedOrigins {
	var origins TrustedOrigins
	for _, o := range strings.Split(GetEnv("CSRF_TRUSTED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
