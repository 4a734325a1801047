package middleware

import (
	"net/http/httptest"
	"testing"

	"crew-exam/internal/domain"
	"crew-exam/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRouteTemplateAndStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(Metrics())
	app.Get("/api/tests/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return domain.NewTestNotFoundError("missing")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	ok := metrics.RequestCounter.WithLabelValues("GET", "/api/tests/:id", "200")
	notFound := metrics.RequestCounter.WithLabelValues("GET", "/api/tests/:id", "404")
	okBefore, notFoundBefore := testutil.ToFloat64(ok), testutil.ToFloat64(notFound)

	_, err := app.Test(httptest.NewRequest("GET", "/api/tests/t1", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/api/tests/missing", nil))
	require.NoError(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(notFound))
}
