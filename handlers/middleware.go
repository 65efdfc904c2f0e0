package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"userdesk/utils"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// requireAuth enforces the Authorization: Bearer <token> contract. A missing
// or unusable header is unauthenticated (401); a token that fails
// verification is forbidden (403).
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Authorization header must be in the format 'Bearer {token}'")
			return
		}

		claims, err := a.Tokens.Verify(parts[1])
		if err != nil {
			log.Println("token verification failed:", err)
			respondError(w, http.StatusForbidden, "Failed to authenticate token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*utils.Claims)
	return claims, ok
}

// limited applies the per-IP rate limit to the credential endpoints. The
// limiter fails open when redis is unreachable.
func (a *API) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := a.Limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			log.Println("rate limiter unavailable:", err)
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
