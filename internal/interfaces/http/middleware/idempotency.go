package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's request key
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the header value
const MaxIdempotencyKeyLength = 255

// Idempotency rejects a repeated Idempotency-Key on the same route for the
// same user with 409. A key whose request failed (status >= 400) is
// released, so the client may retry it. Requests without the header pass.
// Store errors are logged and the request proceeds unguarded.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + ":" + GetAuthUserID(c) + ":" + key
		ctx := c.Request.Context()
		isNew, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, request not guarded",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !isNew {
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest,
				shared.ErrDuplicateRequest.Message)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
