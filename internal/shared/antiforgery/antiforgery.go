package antiforgery

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "__af_nonce"
	FormField  = "__RequestVerificationToken"
	HeaderName = "X-CSRF-Token"
)

var (
	ErrMissingCookie = errors.New("antiforgery: nonce cookie missing")
	ErrMissingToken  = errors.New("antiforgery: token missing")
	ErrInvalidToken  = errors.New("antiforgery: token invalid")
	ErrNonceMismatch = errors.New("antiforgery: token does not match cookie")
)

type claims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// Manager issues and checks double-submit tokens. The browser holds a random
// nonce in an HttpOnly cookie; form responses carry an HS256 token that signs
// the same nonce. A state-changing request must present both.
type Manager struct {
	secret       []byte
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

func NewManager(secret string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		secret:       []byte(secret),
		ttl:          ttl,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

// Issue makes sure the caller has a nonce cookie and returns a token bound to it.
func (m *Manager) Issue(c *gin.Context) (string, error) {
	nonce, err := c.Cookie(CookieName)
	if err != nil || nonce == "" {
		nonce = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, nonce, 0, "/", "", m.secureCookie, true)
	}
	return m.Sign(nonce)
}

func (m *Manager) Sign(nonce string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return token.SignedString(m.secret)
}

// Validate checks the token from the X-CSRF-Token header or the
// __RequestVerificationToken form field against the nonce cookie.
func (m *Manager) Validate(c *gin.Context) error {
	nonce, err := c.Cookie(CookieName)
	if err != nil || nonce == "" {
		return ErrMissingCookie
	}

	raw := c.GetHeader(HeaderName)
	if raw == "" {
		raw = c.PostForm(FormField)
	}
	if raw == "" {
		return ErrMissingToken
	}

	var cl claims
	_, err = jwt.ParseWithClaims(raw, &cl,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if subtle.ConstantTimeCompare([]byte(cl.Nonce), []byte(nonce)) != 1 {
		return ErrNonceMismatch
	}
	return nil
}
