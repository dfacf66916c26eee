package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// CookieName is the session cookie sent to browsers.
const CookieName = "maraseel.sid"

var errEmptySecret = errors.New("session: empty cookie secret")

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Cookies signs session handles into cookies and reads them back. A cookie
// is only ever a pointer to a server-side session; it carries no account data.
type Cookies struct {
	secret       []byte
	secureAlways bool
	ttl          time.Duration
	now          func() time.Time
}

// NewCookies builds the codec. secureAlways forces the Secure flag even for
// plain HTTP requests, which production deployments behind TLS terminators need.
func NewCookies(secret string, secureAlways bool) (*Cookies, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	return &Cookies{
		secret:       []byte(secret),
		secureAlways: secureAlways,
		ttl:          domain.SessionTTL,
		now:          time.Now,
	}, nil
}

// New returns the cookie that binds the browser to handle.
func (c *Cookies) New(handle string, tls bool) (*http.Cookie, error) {
	now := c.now()
	claims := cookieClaims{
		SessionID: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		Expires:  now.Add(c.ttl),
		HttpOnly: true,
		Secure:   tls || c.secureAlways,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns a cookie that makes the browser drop the session cookie.
func (c *Cookies) Clear(tls bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   tls || c.secureAlways,
		SameSite: http.SameSiteLaxMode,
	}
}

// Handle extracts the session handle from the request cookie. It returns
// false for a missing cookie, a bad signature or an expired token.
func (c *Cookies) Handle(r *http.Request) (string, bool) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}

	var claims cookieClaims
	tkn, err := jwt.ParseWithClaims(ck.Value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}
