package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/proposals-lambda/internal/config"
)

type contextKey string

const (
	claimsKey  contextKey = "user_claims"
	cookieName            = "jwt"
)

var ErrNoClaims = errors.New("no user claims in context")

// AuthMiddleware rejects requests without a valid token and stores the claims
// in the request context for downstream handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenString := extractToken(r)
		if tokenString == "" {
			log.Warn("Request without credentials")
			config.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := ValidateJWT(tokenString)
		if err != nil {
			log.WithError(err).Warn("Token validation failed")
			config.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}
