package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/hospital-service/internal/observability"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

func TestMiddlewaresRecoverPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), observability.NewMetrics(), time.Second)
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "kaboom")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMiddlewaresRenderDomainErrors(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("item", map[string]any{"id": c.Params("id")})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/items/42", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "item not found", body["error"]["message"])
	assert.Equal(t, map[string]any{"id": "42"}, body["error"]["details"])

	count, err := testutil.GatherAndCount(metrics.Registry(), "hospital_http_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
