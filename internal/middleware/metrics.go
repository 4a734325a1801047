package middleware

import (
	"strconv"
	"time"

	"crew-exam/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusCode(err)
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}

		metrics.RequestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
