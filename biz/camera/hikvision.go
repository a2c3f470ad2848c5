package camera

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	custff "github.com/CE-Thesis-2023/hikcamerabot/internal/ffmpeg"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/hikvision"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"go.uber.org/zap"
)

// AlarmSwitch arms and disarms alert-stream watching for a camera.
type AlarmSwitch interface {
	Arm(cameraId string, description string, stream hikvision.EventApiInterface) error
	Disarm(cameraId string) error
}

type HikvisionCamera struct {
	id          string
	description string
	cfg         configs.CameraConfigs
	credentials *hikvision.Credentials
	client      hikvision.Client
	relays      *custff.RelayManager
	recorder    *custff.ClipRecorder
	alarms      AlarmSwitch
}

func NewHikvisionCamera(
	cfg configs.CameraConfigs,
	client hikvision.Client,
	relays *custff.RelayManager,
	recorder *custff.ClipRecorder,
	alarms AlarmSwitch) *HikvisionCamera {
	return &HikvisionCamera{
		id:          cfg.Id,
		description: cfg.Description,
		cfg:         cfg,
		credentials: &hikvision.Credentials{
			Username: cfg.Api.Username,
			Password: cfg.Api.Password,
			Ip:       cfg.Api.Host,
		},
		client:   client,
		relays:   relays,
		recorder: recorder,
		alarms:   alarms,
	}
}

func (c *HikvisionCamera) FetchSnapshot(ctx context.Context) ([]byte, error) {
	return c.client.Streaming(c.credentials).Picture(ctx, c.cfg.Api.SnapshotChannel)
}

func (c *HikvisionCamera) StartRecording(ctx context.Context) error {
	if c.recorder == nil {
		return custerror.FormatUnsupported("recording is not set up")
	}
	return c.recorder.Start(c.id, c.rtspUrl())
}

func (c *HikvisionCamera) StopRecording(ctx context.Context) ([]byte, error) {
	if c.recorder == nil {
		return nil, custerror.FormatUnsupported("recording is not set up")
	}
	return c.recorder.Stop(ctx, c.id)
}

func (c *HikvisionCamera) SetDetection(ctx context.Context, detector events.Detector, enabled bool) error {
	channel := c.cfg.Api.VideoChannel
	system := c.client.System(c.credentials)
	smart := c.client.Smart(c.credentials)

	var (
		get func(ctx context.Context, channelId string) ([]byte, error)
		put func(ctx context.Context, channelId string, body []byte) error
	)
	switch detector {
	case events.DetectorMotion:
		get, put = system.MotionDetection, system.UpdateMotionDetection
	case events.DetectorIntrusion:
		get, put = smart.FieldDetection, smart.UpdateFieldDetection
	case events.DetectorLineCrossing:
		get, put = smart.LineDetection, smart.UpdateLineDetection
	default:
		return custerror.FormatInvalidArgument("unknown detector %q", detector)
	}

	doc, err := get(ctx, channel)
	if err != nil {
		return err
	}
	doc, err = hikvision.SetEnabled(doc, enabled)
	if err != nil {
		return err
	}
	return put(ctx, channel, doc)
}

func (c *HikvisionCamera) SetIrcutMode(ctx context.Context, mode events.IrcutMode) error {
	return c.client.Image(c.credentials).UpdateIrcutFilter(ctx,
		c.cfg.Api.VideoChannel,
		&hikvision.IrcutFilter{IrcutFilterType: string(mode)})
}

func (c *HikvisionCamera) SetStream(ctx context.Context, service events.StreamService, enabled bool) error {
	if c.relays == nil {
		return custerror.FormatUnsupported("streaming is not set up")
	}
	key := fmt.Sprintf("%s/%s", c.id, service)
	if !enabled {
		return c.relays.Stop(ctx, key)
	}

	stream, found := c.cfg.Streams[string(service)]
	if !found || stream.Url == "" {
		return custerror.FormatUnsupported("no %s stream configured for camera %s", service.Title(), c.id)
	}
	return c.relays.Start(key, c.rtspUrl(), stream.Url, stream.Args)
}

func (c *HikvisionCamera) SetAlarm(ctx context.Context, enabled bool) error {
	if c.alarms == nil {
		return custerror.FormatUnsupported("alert mode is not set up")
	}
	if enabled {
		return c.alarms.Arm(c.id, c.description, c.client.Event(c.credentials))
	}
	return c.alarms.Disarm(c.id)
}

func (c *HikvisionCamera) Probe(ctx context.Context) error {
	info, err := c.client.System(c.credentials).DeviceInfo(ctx)
	if err != nil {
		return err
	}
	logger.SDebug("camera probed",
		zap.String("camera", c.id),
		zap.String("model", info.Model))
	return nil
}

func (c *HikvisionCamera) rtspUrl() string {
	if c.cfg.RtspUrl != "" {
		return c.cfg.RtspUrl
	}
	host := c.cfg.Api.Host
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	u := &url.URL{
		Scheme: "rtsp",
		Host:   host + ":554",
	}
	u = u.JoinPath("/Streaming", "Channels", c.cfg.Api.SnapshotChannel)
	if c.cfg.Api.Username != "" {
		u.User = url.UserPassword(c.cfg.Api.Username, c.cfg.Api.Password)
	}
	return u.String()
}
