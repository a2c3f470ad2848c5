package custhttp

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalErrorHandler(t *testing.T) {
	s := New(
		WithGlobalConfigs(&configs.HttpConfigs{Name: "test", Port: 0}),
		WithErrorHandler(GlobalErrorHandler()),
		WithMiddleware(CommonPublicMiddlewares(nil)...),
		WithRegistration(func(app *fiber.App) {
			app.Get("/missing", func(ctx *fiber.Ctx) error {
				return custerror.FormatNotFound("camera garage not found")
			})
			app.Get("/panic", func(ctx *fiber.Ctx) error {
				panic("boom")
			})
		}),
	)
	assert.Equal(t, "test", s.Name())

	resp, err := s.App().Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "camera garage not found")

	resp, err = s.App().Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusGatewayTimeout, StatusOf(custerror.CodeTimeout))
	assert.Equal(t, fiber.StatusServiceUnavailable, StatusOf(custerror.CodeUnavailable))
	assert.Equal(t, fiber.StatusConflict, StatusOf(custerror.CodeAmbiguous))
	assert.Equal(t, fiber.StatusInternalServerError, StatusOf(0))
}
