package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultDBPingTimeout bounds the availability check of DatabaseGuard
const DefaultDBPingTimeout = 2 * time.Second

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseGuard answers 503 when the database does not respond to a ping
// within timeout
func DatabaseGuard(db Pinger, timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultDBPingTimeout
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		err := db.PingContext(ctx)
		cancel()
		if err != nil {
			logger.L(c.Request.Context()).Error("Database ping failed", zap.Error(err))
			abortWithError(c, dto.ErrCodeUnavailable, "Database connection failed")
			return
		}
		c.Next()
	}
}
