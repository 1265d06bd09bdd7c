package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kscudds/Employee/internal/shared/apperror"
	"github.com/kscudds/Employee/internal/shared/contextutil"
	"github.com/kscudds/Employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// Idempotency rejects a POST whose Idempotency-Key was already used on the
// same route. A request that ends with a 4xx/5xx releases its key so the
// client can retry. Without Redis, or without the header, it is a pass-through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L())
		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)

		// SetNX: hanya request pertama yang berhasil membuat key
		isNew, err := rdb.SetNX(ctx, cacheKey, "1", idempotencyTTL).Result()
		if err != nil {
			log.Warn("idempotency check unavailable, continuing", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.AbortError(c, http.StatusConflict, apperror.CodeConflict, "A request with this Idempotency-Key was already submitted")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := rdb.Del(ctx, cacheKey).Err(); err != nil {
				log.Warn("release idempotency key failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
}
