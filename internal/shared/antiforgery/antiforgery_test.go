package antiforgery_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kscudds/Employee/internal/shared/antiforgery"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(method string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, "/employees/create", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	c.Request = req
	return c, w
}

func TestManager_IssueSetsCookie(t *testing.T) {
	m := antiforgery.NewManager("secret", time.Hour, false)
	c, w := newContext(http.MethodGet, "")

	token, err := m.Issue(c)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	cookie := w.Result().Cookies()
	if assert.Len(t, cookie, 1) {
		assert.Equal(t, antiforgery.CookieName, cookie[0].Name)
		assert.True(t, cookie[0].HttpOnly)
	}
}

func TestManager_Validate(t *testing.T) {
	m := antiforgery.NewManager("secret", time.Hour, false)
	nonce := "nonce-1"
	token, err := m.Sign(nonce)
	assert.NoError(t, err)

	t.Run("form field accepted", func(t *testing.T) {
		form := url.Values{antiforgery.FormField: {token}, "last_name": {"Adams"}}
		c, _ := newContext(http.MethodPost, form.Encode())
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: nonce})

		assert.NoError(t, m.Validate(c))
	})

	t.Run("header accepted", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "")
		c.Request.Header.Set(antiforgery.HeaderName, token)
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: nonce})

		assert.NoError(t, m.Validate(c))
	})

	t.Run("missing cookie", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "")
		c.Request.Header.Set(antiforgery.HeaderName, token)

		assert.ErrorIs(t, m.Validate(c), antiforgery.ErrMissingCookie)
	})

	t.Run("missing token", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "")
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: nonce})

		assert.ErrorIs(t, m.Validate(c), antiforgery.ErrMissingToken)
	})

	t.Run("cookie from another session", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "")
		c.Request.Header.Set(antiforgery.HeaderName, token)
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: "other"})

		assert.ErrorIs(t, m.Validate(c), antiforgery.ErrNonceMismatch)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := antiforgery.NewManager("another-secret", time.Hour, false)
		c, _ := newContext(http.MethodPost, "")
		c.Request.Header.Set(antiforgery.HeaderName, token)
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: nonce})

		assert.ErrorIs(t, other.Validate(c), antiforgery.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := m.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
		c, _ := newContext(http.MethodPost, "")
		c.Request.Header.Set(antiforgery.HeaderName, token)
		c.Request.AddCookie(&http.Cookie{Name: antiforgery.CookieName, Value: nonce})

		assert.ErrorIs(t, later.Validate(c), antiforgery.ErrInvalidToken)
	})
}
