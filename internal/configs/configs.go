package configs

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	"gopkg.in/yaml.v3"
)

var globalConfigs *Configs

type Configs struct {
	Public    HttpConfigs       `json:"public,omitempty" yaml:"public,omitempty"`
	Logger    LoggerConfigs     `json:"logger,omitempty" yaml:"logger,omitempty"`
	MqttStore EventStoreConfigs `json:"mqttStore,omitempty" yaml:"mqttStore,omitempty"`
	Bot       BotConfigs        `json:"bot,omitempty" yaml:"bot,omitempty"`
	Cameras   []CameraConfigs   `json:"cameras,omitempty" yaml:"cameras,omitempty"`
	Ffmpeg    FfmpegConfigs     `json:"ffmpeg,omitempty" yaml:"ffmpeg,omitempty"`
}

func (c Configs) String() string {
	redacted := c
	redacted.MqttStore.Password = redact(c.MqttStore.Password)
	redacted.Cameras = make([]CameraConfigs, len(c.Cameras))
	for i, cam := range c.Cameras {
		cam.Api.Password = redact(cam.Api.Password)
		redacted.Cameras[i] = cam
	}
	configBytes, _ := json.Marshal(redacted)
	return string(configBytes)
}

func redact(s string) string {
	if s == "" {
		return s
	}
	return "***"
}

func Init(ctx context.Context) {
	configs, err := readConfig()
	if err != nil {
		log.Fatal(err)
		return
	}
	globalConfigs = configs
}

func Get() *Configs {
	return globalConfigs
}

type HttpConfigs struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`
}

type LoggerConfigs struct {
	Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

type EventStoreConfigs struct {
	TlsEnabled bool   `json:"tlsEnabled,omitempty" yaml:"tlsEnabled,omitempty"`
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	ClientId   string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

func (c *EventStoreConfigs) HasAuth() bool {
	return len(c.Username) > 0 && len(c.Password) > 0
}

type BotConfigs struct {
	Id              string         `json:"id,omitempty" yaml:"id,omitempty"`
	AllowedUsers    []int64        `json:"allowedUsers,omitempty" yaml:"allowedUsers,omitempty"`
	AlertChats      []string       `json:"alertChats,omitempty" yaml:"alertChats,omitempty"`
	DispatchTimeout time.Duration  `json:"dispatchTimeout,omitempty" yaml:"dispatchTimeout,omitempty"`
	ReplyTimeout    time.Duration  `json:"replyTimeout,omitempty" yaml:"replyTimeout,omitempty"`
	PoolSize        int            `json:"poolSize,omitempty" yaml:"poolSize,omitempty"`
	IntakePoolSize  int            `json:"intakePoolSize,omitempty" yaml:"intakePoolSize,omitempty"`
	HealthInterval  time.Duration  `json:"healthInterval,omitempty" yaml:"healthInterval,omitempty"`
	VideoGif        VideoGifConfig `json:"videoGif,omitempty" yaml:"videoGif,omitempty"`
}

type VideoGifConfig struct {
	Duration  time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	OutputDir string        `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	Scale     string        `json:"scale,omitempty" yaml:"scale,omitempty"`
}

type CameraConfigs struct {
	Id           string                  `json:"id,omitempty" yaml:"id,omitempty"`
	Description  string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Api          CameraApiConfigs        `json:"api,omitempty" yaml:"api,omitempty"`
	Capabilities []string                `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	RtspUrl      string                  `json:"rtspUrl,omitempty" yaml:"rtspUrl,omitempty"`
	Streams      map[string]StreamConfig `json:"streams,omitempty" yaml:"streams,omitempty"`
}

type CameraApiConfigs struct {
	Host            string        `json:"host,omitempty" yaml:"host,omitempty"`
	Username        string        `json:"username,omitempty" yaml:"username,omitempty"`
	Password        string        `json:"password,omitempty" yaml:"password,omitempty"`
	SnapshotChannel string        `json:"snapshotChannel,omitempty" yaml:"snapshotChannel,omitempty"`
	VideoChannel    string        `json:"videoChannel,omitempty" yaml:"videoChannel,omitempty"`
	Timeout         time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type StreamConfig struct {
	Url  string            `json:"url,omitempty" yaml:"url,omitempty"`
	Args map[string]string `json:"args,omitempty" yaml:"args,omitempty"`
}

type FfmpegConfigs struct {
	BinaryPath string `json:"binaryPath,omitempty" yaml:"binaryPath,omitempty"`
}

func readConfig() (*Configs, error) {
	path, err := getConfigFilePath()
	if err != nil {
		return nil, err
	}
	configFile, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	configs, err := parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	return configs, nil
}

func getConfigFilePath() (string, error) {
	path := os.Getenv(ENV_CONFIG_FILE_PATH)
	if len(path) == 0 {
		return "", custerror.FormatNotFound("%s not found, unable to read configurations", ENV_CONFIG_FILE_PATH)
	}
	return path, nil
}

func readConfigFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, custerror.FormatNotFound("readConfigFile: file not found")
		}
		return nil, custerror.FormatInternalError("readConfigFile: err = %s", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, custerror.FormatInternalError("readConfigFile: err = %s", err)
	}

	return contents, nil
}

func parseConfig(contents []byte) (*Configs, error) {
	configs := &Configs{}
	if jsonErr := json.Unmarshal(contents, configs); jsonErr != nil {
		configs = &Configs{}
		if yamlErr := yaml.Unmarshal(contents, configs); yamlErr != nil {
			return nil, custerror.FormatInvalidArgument("parseConfig: config parse JSON err = %s YAML err = %s", jsonErr, yamlErr)
		}
	}
	applyDefaults(configs)
	if err := validate(configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func applyDefaults(c *Configs) {
	if c.Bot.DispatchTimeout <= 0 {
		c.Bot.DispatchTimeout = defaultDispatchTimeout
	}
	if c.Bot.ReplyTimeout <= 0 {
		c.Bot.ReplyTimeout = defaultReplyTimeout
	}
	if c.Bot.PoolSize <= 0 {
		c.Bot.PoolSize = defaultPoolSize
	}
	if c.Bot.IntakePoolSize <= 0 {
		c.Bot.IntakePoolSize = defaultIntakePoolSize
	}
	if c.Bot.HealthInterval <= 0 {
		c.Bot.HealthInterval = defaultHealthInterval
	}
	if c.Bot.VideoGif.Duration <= 0 {
		c.Bot.VideoGif.Duration = defaultVideoDuration
	}
	if c.Bot.VideoGif.OutputDir == "" {
		c.Bot.VideoGif.OutputDir = os.TempDir()
	}
	for i := range c.Cameras {
		api := &c.Cameras[i].Api
		if api.SnapshotChannel == "" {
			api.SnapshotChannel = defaultSnapshotChannel
		}
		if api.VideoChannel == "" {
			api.VideoChannel = defaultVideoChannel
		}
		if api.Timeout <= 0 {
			api.Timeout = defaultHttpTimeout
		}
	}
}

func validate(c *Configs) error {
	if c.Bot.Id == "" {
		return custerror.FormatInvalidArgument("validate: bot.id is required")
	}
	if c.Bot.VideoGif.Duration >= c.Bot.DispatchTimeout {
		return custerror.FormatInvalidArgument("validate: bot.videoGif.duration = %s must be shorter than bot.dispatchTimeout = %s",
			c.Bot.VideoGif.Duration, c.Bot.DispatchTimeout)
	}
	seen := make(map[string]struct{}, len(c.Cameras))
	for _, cam := range c.Cameras {
		if cam.Id == "" {
			return custerror.FormatInvalidArgument("validate: camera id is required")
		}
		if _, found := seen[cam.Id]; found {
			return custerror.FormatAlreadyExists("validate: duplicated camera id = %s", cam.Id)
		}
		seen[cam.Id] = struct{}{}
	}
	return nil
}
