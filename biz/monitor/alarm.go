package monitor

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/hikvision"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const alertTimeLayout = "2006-01-02 15:04:05"

type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *events.AlertMessage) error
}

type AlarmOptions struct {
	throttle       time.Duration
	reconnectDelay time.Duration
	maxDelay       time.Duration
	publishTimeout time.Duration
}

type AlarmOptioner func(o *AlarmOptions)

// WithThrottle sets the minimum gap between two alerts of the same event
// type from one camera.
func WithThrottle(d time.Duration) AlarmOptioner {
	return func(o *AlarmOptions) {
		o.throttle = d
	}
}

func WithReconnectDelay(delay time.Duration, max time.Duration) AlarmOptioner {
	return func(o *AlarmOptions) {
		o.reconnectDelay = delay
		o.maxDelay = max
	}
}

type watcher struct {
	cameraId    string
	description string
	cancel      context.CancelFunc
	done        chan struct{}

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// AlarmMonitor keeps one alert stream watcher per armed camera and forwards
// active detections to the configured alert chats.
type AlarmMonitor struct {
	mu       sync.Mutex
	watchers map[string]*watcher

	publisher AlertPublisher
	chats     []string
	options   *AlarmOptions
	now       func() time.Time
}

func NewAlarmMonitor(publisher AlertPublisher, chats []string, options ...AlarmOptioner) *AlarmMonitor {
	opts := &AlarmOptions{
		throttle:       30 * time.Second,
		reconnectDelay: time.Second,
		maxDelay:       time.Minute,
		publishTimeout: 10 * time.Second,
	}
	for _, o := range options {
		o(opts)
	}
	return &AlarmMonitor{
		watchers:  map[string]*watcher{},
		publisher: publisher,
		chats:     chats,
		options:   opts,
		now:       time.Now,
	}
}

// Arm starts watching the camera's alert stream. Arming an armed camera is a
// no-op.
func (m *AlarmMonitor) Arm(cameraId string, description string, stream hikvision.EventApiInterface) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.watchers[cameraId]; found {
		logger.SDebug("monitor.Arm: already armed", zap.String("cameraId", cameraId))
		return nil
	}
	if len(m.chats) == 0 {
		logger.SWarn("monitor.Arm: no alert chats configured, alerts will only be logged",
			zap.String("cameraId", cameraId))
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		cameraId:    cameraId,
		description: description,
		cancel:      cancel,
		done:        make(chan struct{}),
		lastSent:    map[string]time.Time{},
	}
	m.watchers[cameraId] = w
	go m.watch(ctx, w, stream)

	logger.SInfo("monitor.Arm: alert mode enabled", zap.String("cameraId", cameraId))
	return nil
}

// Disarm stops the camera's watcher. Disarming a camera that is not armed is
// a no-op.
func (m *AlarmMonitor) Disarm(cameraId string) error {
	m.mu.Lock()
	w, found := m.watchers[cameraId]
	if found {
		delete(m.watchers, cameraId)
	}
	m.mu.Unlock()

	if !found {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		logger.SWarn("monitor.Disarm: watcher did not exit in time",
			zap.String("cameraId", cameraId))
	}
	logger.SInfo("monitor.Disarm: alert mode disabled", zap.String("cameraId", cameraId))
	return nil
}

func (m *AlarmMonitor) Armed(cameraId string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, found := m.watchers[cameraId]
	return found
}

func (m *AlarmMonitor) StopAll(ctx context.Context) {
	m.mu.Lock()
	watchers := m.watchers
	m.watchers = map[string]*watcher{}
	m.mu.Unlock()

	for _, w := range watchers {
		w.cancel()
	}
	for _, w := range watchers {
		select {
		case <-w.done:
		case <-ctx.Done():
			logger.SWarn("monitor.StopAll: gave up waiting for watchers", zap.Error(ctx.Err()))
			return
		}
	}
}

func (m *AlarmMonitor) watch(ctx context.Context, w *watcher, stream hikvision.EventApiInterface) {
	defer close(w.done)

	err := retry.Do(
		func() error {
			return stream.AlertStream(ctx, func(alert *hikvision.EventNotificationAlert) {
				m.onAlert(ctx, w, alert)
			})
		},
		retry.Context(ctx),
		retry.Attempts(math.MaxUint32),
		retry.Delay(m.options.reconnectDelay),
		retry.MaxDelay(m.options.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.SWarn("monitor.watch: alert stream dropped, reconnecting",
				zap.String("cameraId", w.cameraId),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil && ctx.Err() == nil {
		logger.SError("monitor.watch: alert stream abandoned",
			zap.String("cameraId", w.cameraId),
			zap.Error(err))
	}
}

func (m *AlarmMonitor) onAlert(ctx context.Context, w *watcher, alert *hikvision.EventNotificationAlert) {
	if !alert.Active() {
		return
	}
	if !w.allow(alert.EventType, m.now(), m.options.throttle) {
		return
	}

	detectedAt := m.now().Format(alertTimeLayout)
	text := fmt.Sprintf("Alert from %s: %s detected at %s", w.description, describeEvent(alert), detectedAt)
	logger.SInfo("monitor.onAlert: detection",
		zap.String("cameraId", w.cameraId),
		zap.String("eventType", alert.EventType))

	for _, chatId := range m.chats {
		pubCtx, cancel := context.WithTimeout(ctx, m.options.publishTimeout)
		err := m.publisher.PublishAlert(pubCtx, &events.AlertMessage{
			ChatId:      chatId,
			CameraId:    w.cameraId,
			Description: w.description,
			EventType:   alert.EventType,
			Text:        text,
			DetectedAt:  detectedAt,
		})
		cancel()
		if err != nil {
			logger.SError("monitor.onAlert: unable to publish alert",
				zap.String("cameraId", w.cameraId),
				zap.String("chatId", chatId),
				zap.Error(err))
		}
	}
}

func (w *watcher) allow(eventType string, at time.Time, throttle time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if last, found := w.lastSent[eventType]; found && at.Sub(last) < throttle {
		return false
	}
	w.lastSent[eventType] = at
	return true
}

func describeEvent(alert *hikvision.EventNotificationAlert) string {
	switch alert.EventType {
	case "VMD":
		return "motion"
	case "fielddetection":
		return "intrusion"
	case "linedetection":
		return "line crossing"
	}
	if alert.EventDescription != "" {
		return alert.EventDescription
	}
	return alert.EventType
}
