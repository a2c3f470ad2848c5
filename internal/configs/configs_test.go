package configs

import (
	"errors"
	"testing"
	"time"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfigs = `
bot:
  id: home
  allowedUsers: [1001, 1002]
  dispatchTimeout: 15s
cameras:
  - id: front
    description: Front door
    api:
      host: http://192.168.1.10
      username: admin
      password: secret
    capabilities: [take_snapshot, configure_ircut_filter]
  - id: back
    description: Backyard
`

func TestParseConfig_Yaml(t *testing.T) {
	c, err := parseConfig([]byte(yamlConfigs))
	require.NoError(t, err)

	assert.Equal(t, "home", c.Bot.Id)
	assert.Equal(t, []int64{1001, 1002}, c.Bot.AllowedUsers)
	assert.Equal(t, 15*time.Second, c.Bot.DispatchTimeout)
	assert.Equal(t, defaultPoolSize, c.Bot.PoolSize)
	require.Len(t, c.Cameras, 2)
	assert.Equal(t, "front", c.Cameras[0].Id)
	assert.Equal(t, defaultSnapshotChannel, c.Cameras[0].Api.SnapshotChannel)
	assert.Equal(t, []string{"take_snapshot", "configure_ircut_filter"}, c.Cameras[0].Capabilities)
}

func TestParseConfig_Json(t *testing.T) {
	c, err := parseConfig([]byte(`{"bot":{"id":"home"},"cameras":[{"id":"front"}]}`))
	require.NoError(t, err)
	assert.Equal(t, defaultDispatchTimeout, c.Bot.DispatchTimeout)
	assert.Equal(t, defaultHttpTimeout, c.Cameras[0].Api.Timeout)
}

func TestParseConfig_DuplicatedCamera(t *testing.T) {
	_, err := parseConfig([]byte(`{"bot":{"id":"home"},"cameras":[{"id":"a"},{"id":"a"}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, custerror.ErrorAlreadyExists))
}

func TestParseConfig_VideoLongerThanDispatchTimeout(t *testing.T) {
	_, err := parseConfig([]byte(`
bot:
  id: home
  dispatchTimeout: 10s
  videoGif:
    duration: 10s
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, custerror.ErrorInvalidArgument))

	c, err := parseConfig([]byte(`
bot:
  id: home
  dispatchTimeout: 10s
  videoGif:
    duration: 9s
`))
	require.NoError(t, err)
	assert.Equal(t, 9*time.Second, c.Bot.VideoGif.Duration)
}

func TestConfigs_StringRedactsSecrets(t *testing.T) {
	c, err := parseConfig([]byte(yamlConfigs))
	require.NoError(t, err)
	assert.NotContains(t, c.String(), "secret")
	assert.Equal(t, "secret", c.Cameras[0].Api.Password)
}
