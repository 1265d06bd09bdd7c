package employee

import (
	"github.com/kscudds/Employee/internal/middleware"
	"github.com/kscudds/Employee/internal/shared/antiforgery"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens *antiforgery.Manager,
	writeRate rate.Limit,
	writeBurst int,
	rdb *redis.Client,
) {
	// one bucket per client IP shared by every state-changing route
	writeLimit := middleware.RateLimitByIP(writeRate, writeBurst)
	verifyToken := middleware.RequireAntiForgery(tokens)
	idempotent := middleware.Idempotency(rdb)

	employees := r.Group(BasePath)
	{
		employees.GET("", handler.Index)

		employees.GET("/details", handler.Details)
		employees.GET("/details/:id", handler.Details)

		employees.GET("/create", handler.CreateForm)
		employees.POST("/create", writeLimit, verifyToken, idempotent, handler.Create)

		employees.GET("/edit", handler.EditForm)
		employees.GET("/edit/:id", handler.EditForm)
		employees.POST("/edit", writeLimit, verifyToken, handler.EditApply)
		employees.POST("/edit/:id", writeLimit, verifyToken, handler.EditApply)

		employees.GET("/delete", handler.DeleteForm)
		employees.GET("/delete/:id", handler.DeleteForm)
		employees.POST("/delete/:id", writeLimit, verifyToken, handler.DeleteConfirmed)
	}
}
