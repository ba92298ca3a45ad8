package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SessionCookie is the name of the cookie carrying the signed session token
const SessionCookie = "pp_session"

type sessionKey struct{}

// SessionID returns the session id stored in ctx by SessionMiddleware
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying id
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionMiddleware assigns every browser a session id carried in an HS256
// JWT cookie. Missing, invalid or expired tokens start a new session; tokens
// past half their lifetime are reissued.
func SessionMiddleware(secret []byte, ttl time.Duration, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, expiresAt := parseSession(r, secret)
			now := time.Now()
			if id == "" {
				id = uuid.NewString()
				log.WithField("session", id).Debug("Starting new session")
			}
			if expiresAt.Sub(now) < ttl/2 {
				token, err := issueToken(id, secret, now, ttl)
				if err != nil {
					log.Errorf("Failed to sign session token: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    token,
					Path:     "/",
					Expires:  now.Add(ttl),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func parseSession(r *http.Request, secret []byte) (string, time.Time) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", time.Time{}
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}
	}
	return claims.Subject, claims.ExpiresAt.Time
}

func issueToken(id string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}
