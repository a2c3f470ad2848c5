package publicapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custhttp "github.com/CE-Thesis-2023/hikcamerabot/internal/http"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
	"github.com/CE-Thesis-2023/hikcamerabot/models/rest"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	reply *chat.Reply
	got   chat.Requester
	text  string
}

func (r *scriptedRunner) HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error {
	r.text = text
	r.got = requester
	if r.reply == nil {
		return nil
	}
	return sink.Send(ctx, r.reply)
}

func newTestApp(t *testing.T, runner CommandRunner, wait time.Duration) *fiber.App {
	t.Helper()
	reg := registry.New()
	front := registry.NewCameraHandle("front", "Front door", nil,
		events.KindTakeSnapshot, events.KindConfigureAlarm)
	front.IncSnapshotsTaken()
	front.MarkProbed(true, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, reg.Register(front))
	require.NoError(t, reg.Register(registry.NewCameraHandle("back", "Backyard", nil)))

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "camerabot_test_total",
		Help: "test counter",
	}))

	s := custhttp.New(
		custhttp.WithGlobalConfigs(&configs.HttpConfigs{Name: "public", Port: 0}),
		custhttp.WithErrorHandler(custhttp.GlobalErrorHandler()),
		custhttp.WithRegistration(Routes(NewHandlers(reg, runner, wait), metrics)),
	)
	return s.App()
}

func TestGETHealthcheck(t *testing.T) {
	app := newTestApp(t, &scriptedRunner{}, time.Second)
	resp, err := app.Test(httptest.NewRequest("GET", "/healthcheck", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGETListCameras(t *testing.T) {
	app := newTestApp(t, &scriptedRunner{}, time.Second)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/cameras", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body rest.ListCamerasResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Cameras, 2)

	front := body.Cameras[0]
	assert.Equal(t, "front", front.Id)
	assert.Equal(t, []string{"take_snapshot", "configure_alarm"}, front.Capabilities)
	assert.True(t, front.Online)
	assert.EqualValues(t, 1, front.SnapshotsTaken)
	require.NotNil(t, front.LastSeen)

	back := body.Cameras[1]
	assert.Equal(t, "back", back.Id)
	assert.False(t, back.Online)
	assert.Nil(t, back.LastSeen)
	assert.Len(t, back.Capabilities, len(events.AllKinds))
}

func TestPOSTCommand_ReturnsReply(t *testing.T) {
	runner := &scriptedRunner{reply: &chat.Reply{
		Text:      "Front door, taken at 2024-05-01 10:00:00",
		Format:    chat.FormatPlain,
		Media:     []byte("jpeg"),
		MediaType: chat.MediaPhoto,
	}}
	app := newTestApp(t, runner, time.Second)

	req := httptest.NewRequest("POST", "/api/commands",
		strings.NewReader(`{"text":"/getpic","userId":42,"chatId":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body rest.CommandResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "photo", body.MediaType)
	assert.Equal(t, []byte("jpeg"), body.Media)
	assert.False(t, body.Failed)
	assert.Equal(t, "/getpic", runner.text)
	assert.EqualValues(t, 42, runner.got.UserId)
	assert.Equal(t, "100", runner.got.ChatId)
}

func TestPOSTCommand_TimesOutWithoutReply(t *testing.T) {
	app := newTestApp(t, &scriptedRunner{}, 50*time.Millisecond)

	req := httptest.NewRequest("POST", "/api/commands",
		strings.NewReader(`{"text":"/getvideo","userId":42,"chatId":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGatewayTimeout, resp.StatusCode)
}

func TestPOSTCommand_RejectsEmptyText(t *testing.T) {
	app := newTestApp(t, &scriptedRunner{}, time.Second)

	req := httptest.NewRequest("POST", "/api/commands", strings.NewReader(`{"userId":42}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGETMetrics(t *testing.T) {
	app := newTestApp(t, &scriptedRunner{}, time.Second)
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "camerabot_test_total")
}
