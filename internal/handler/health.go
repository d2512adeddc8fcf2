package handler

import (
	"context"
	"net/http"
	"time"

	"grocerytracker/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	healthUp   = "up"
	healthDown = "down"
	healthOff  = "off"

	healthTimeout = 3 * time.Second
)

func databaseHealth(ctx context.Context, db *gorm.DB) dto.ComponentHealth {
	h := dto.ComponentHealth{Driver: db.Dialector.Name(), Status: healthUp}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		h.Status = healthDown
	}
	return h
}

func cacheHealth(ctx context.Context, rdb *redis.Client) dto.ComponentHealth {
	if rdb == nil {
		return dto.ComponentHealth{Status: healthOff}
	}
	h := dto.ComponentHealth{Driver: "redis", Status: healthUp}
	if rdb.Ping(ctx).Err() != nil {
		h.Status = healthDown
	}
	return h
}

// Health GET /health. Answers 503 when the database, or a configured
// cache, does not respond within healthTimeout.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		resp := dto.HealthResponse{
			Database: databaseHealth(ctx, db),
			Cache:    cacheHealth(ctx, rdb),
		}
		resp.OK = resp.Database.Status == healthUp && resp.Cache.Status != healthDown

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
