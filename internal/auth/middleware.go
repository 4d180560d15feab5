package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

type contextKey string

const userClaimsKey contextKey = "userClaims"

var ErrNoClaims = errors.New("no user claims in context")

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, userClaimsKey, claims)
	return config.ContextWithFields(ctx, logrus.Fields{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(userClaimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// AuthMiddleware accepts a bearer token, falling back to the jwt cookie set at login.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := bearerToken(r)
		if tokenStr == "" {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				tokenStr = cookie.Value
			}
		}
		if tokenStr == "" {
			log.Debug("Missing credentials")
			apperr.Respond(w, r, apperr.ErrUnauthorized)
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid token")
			apperr.Respond(w, r, apperr.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetUserClaimsFromContext(r.Context())
			if err != nil {
				apperr.Respond(w, r, apperr.ErrUnauthorized)
				return
			}
			if !claims.Is(roles...) {
				config.WithContext(r.Context()).Warnf("Role %s not allowed on %s", claims.Role, r.URL.Path)
				apperr.Respond(w, r, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
