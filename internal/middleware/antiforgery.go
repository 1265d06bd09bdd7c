package middleware

import (
	"net/http"

	"github.com/kscudds/Employee/internal/shared/antiforgery"
	"github.com/kscudds/Employee/internal/shared/apperror"
	"github.com/kscudds/Employee/internal/shared/contextutil"
	"github.com/kscudds/Employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAntiForgery rejects state-changing requests whose anti-forgery token
// does not match the caller's nonce cookie.
func RequireAntiForgery(m *antiforgery.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.Validate(c); err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Warn("anti-forgery check failed", zap.Error(err))
			response.AbortError(c, http.StatusBadRequest, apperror.CodeAntiForgeryRejected, apperror.ErrAntiForgeryRejected.Message)
			return
		}
		c.Next()
	}
}
