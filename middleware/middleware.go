package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

const (
	KeyJwtSessionCookieName = "jwt_session"
	keyAuthorizationHeader  = "Authorization"
	bearerPrefix            = "Bearer "
)

var errMissingToken = errors.New("no session token in request")

// JWTMiddleware lets the request through only with a valid session token,
// taken from the bearer header or the session cookie. The claims are put in
// the request context.
func JWTMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := sessionToken(r)
		if err != nil {
			log.Debug(err)
			http.Error(w, "login to continue", http.StatusUnauthorized)
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			log.WithField("remote", r.RemoteAddr).Warnf("rejected session token, %v", err)
			http.Error(w, "invalid or expired session, login again", http.StatusUnauthorized)
			return
		}

		ctx := service.ContextWithClaims(r.Context(), claims)
		next(w, r.WithContext(ctx))
	}
}

func sessionToken(r *http.Request) (string, error) {
	if header := r.Header.Get(keyAuthorizationHeader); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return "", fmt.Errorf("malformed %s header", keyAuthorizationHeader)
		}
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)), nil
	}
	cookie, err := r.Cookie(KeyJwtSessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", errMissingToken
	}
	return cookie.Value, nil
}

func parseClaims(tokenString string) (service.UserCredentialClaims, error) {
	secret := os.Getenv(service.KeyJWTSecret)
	if secret == "" {
		return service.UserCredentialClaims{}, fmt.Errorf("%w, jwt secret is not configured", tle_errors.ErrInternal)
	}

	var claims service.UserCredentialClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return service.UserCredentialClaims{}, err
	}
	if !token.Valid {
		return service.UserCredentialClaims{}, errors.New("token is not valid")
	}
	if claims.UserID <= 0 {
		return service.UserCredentialClaims{}, fmt.Errorf("token carries no %s", service.KeyUserID)
	}
	return claims, nil
}
