package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
)

// Claims are the parts of the backend token the front-end relies on.
type Claims struct {
	WebUserID string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Expired compares at millisecond precision, a token expiring exactly now is expired.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return true
	}
	return c.ExpiresAt.UnixMilli() <= now.UnixMilli()
}

// segments accepts payloads with or without base64 padding.
var segments = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// DecodeToken reads the payload segment of a compact JWT. The header and
// signature are not inspected, verification is left to the backend that
// issued the token.
func DecodeToken(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "[session DecodeToken] empty token")
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "[session DecodeToken] token has %d segments", len(parts))
	}

	payload, err := segments.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("[session DecodeToken] %w: payload: %w", apperrors.ErrInvalidToken, err)
	}

	var mapClaims jwtlib.MapClaims
	if err := json.Unmarshal(payload, &mapClaims); err != nil {
		return nil, fmt.Errorf("[session DecodeToken] %w: payload: %w", apperrors.ErrInvalidToken, err)
	}

	claims := &Claims{
		WebUserID: claimString(mapClaims["webUserId"]),
		Role:      claimString(mapClaims["role"]),
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("[session DecodeToken] %w: %w", apperrors.ErrInvalidToken, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// claimString accepts ids issued either as strings or as JSON numbers.
func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(value, 10)
	}
	return ""
}
