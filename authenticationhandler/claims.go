// authenticationhandler/claims.go
package authenticationhandler

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var timeNow = time.Now

// TokenExpiry returns the exp claim of a JWT access token. The signature is not
// verified: the value is only used for logging, the API remains the authority on
// whether the token is valid. Opaque tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
