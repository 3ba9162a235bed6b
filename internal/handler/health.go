package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/worker"
)

// Health reports DB and Redis connectivity plus the SMTP breaker state.
// Redis is optional: with rdb nil it reports "disabled" and stays healthy.
// Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, smtp *infra.Disjuntor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus}
		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if n, err := worker.TamanhoFilaMorta(ctx, rdb, worker.QueueEmail); err == nil {
				body["emailDLQ"] = n
			}
		}
		body["redis"] = redisStatus
		if smtp != nil {
			body["smtp"] = smtp.Estado().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
