package middleware

import (
	"context"
	"net/http"
	"strings"

	"petkeep/internal/session"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// SessionContext resolves the session token from the cookie (preferred) or
// the Authorization Bearer header and injects the claims into the request
// context. Invalid or expired tokens are treated as "no session": the cookie
// is cleared and the request continues anonymously — the route gate and the
// handlers decide what anonymity means for them.
//
// Valid cookie-borne sessions past half their lifetime are re-minted here,
// which is what gives the 30-day window its sliding behavior.
func SessionContext(auth *session.Authority, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.Read(token)
			if err != nil {
				if fromCookie {
					session.ClearCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			if fromCookie && auth.ShouldRefresh(claims) {
				if fresh, err := auth.Issue(claims.UserID, claims.Email); err == nil {
					session.SetCookie(w, fresh, secureCookies)
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the resolved session claims, if any.
func GetClaims(ctx context.Context) (session.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(session.Claims)
	return c, ok
}

func sessionToken(r *http.Request) (token string, fromCookie bool) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}
