// Package session mints and reads the signed token that proves user identity,
// and owns the route-level access decision evaluated on every request.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName carries the session token in browser flows.
	CookieName = "petkeep_session"

	// TTL is the sliding session window.
	TTL = 30 * 24 * time.Hour

	// minSecretLen guards against trivially brute-forceable HS256 keys.
	minSecretLen = 32
)

var ErrInvalidToken = errors.New("session: invalid token")

// Claims bind a user identifier to the token lifetime. The user id rides in
// the token so downstream authorization can compare against record ownership
// without a user-table lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Authority issues and reads session tokens.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte) (*Authority, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("session: secret must be at least %d bytes", minSecretLen)
	}
	return &Authority{secret: secret, ttl: TTL, now: time.Now}, nil
}

// Issue mints a signed token for the given user.
func (a *Authority) Issue(userID, email string) (string, error) {
	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		UserID: userID,
		Email:  email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Read parses and validates a token. The signing method is pinned to HS256 to
// prevent algorithm confusion. Malformed and expired tokens both come back as
// ErrInvalidToken; callers treat either as "no session".
func (a *Authority) Read(tokenStr string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return a.now() }))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}

// ShouldRefresh reports whether the token is past half its lifetime. The
// middleware re-issues the cookie at that point, which is what makes the
// 30-day window slide instead of hard-expiring.
func (a *Authority) ShouldRefresh(c Claims) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Sub(a.now()) < a.ttl/2
}

// SetCookie writes the token as an HttpOnly cookie.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// ClearCookie removes the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
