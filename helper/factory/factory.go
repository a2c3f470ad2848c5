package factory

import (
	"context"
	"sync"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/auth"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/camera"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/handlers"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/monitor"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/service"
	custcon "github.com/CE-Thesis-2023/hikcamerabot/internal/concurrent"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custff "github.com/CE-Thesis-2023/hikcamerabot/internal/ffmpeg"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/hikvision"
	custimg "github.com/CE-Thesis-2023/hikcamerabot/internal/imaging"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	custmqtt "github.com/CE-Thesis-2023/hikcamerabot/internal/mqtt"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var once sync.Once

var (
	hikvisionClient hikvision.Client
	metricsRegistry *prometheus.Registry
	cameraRegistry  *registry.Registry
	eventDispatcher *dispatcher.Dispatcher
	relayPool       *ants.Pool
	relayManager    *custff.RelayManager
	clipRecorder    *custff.ClipRecorder
	replyPublisher  *custmqtt.ReplyPublisher
	alarmMonitor    *monitor.AlarmMonitor
	healthProbe     *monitor.HealthProbe
	commandHandler  *handlers.CommandHandler
)

func Init(ctx context.Context, globalConfigs *configs.Configs) {
	once.Do(func() {
		hikvi, err := hikvision.NewClient()
		if err != nil {
			logger.SFatal("factory.Init: hikvision.Client", zap.Error(err))
			return
		}
		hikvisionClient = hikvi

		metricsRegistry = prometheus.NewRegistry()
		metricsRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		relayPool = custcon.New(relayPoolSize(globalConfigs.Cameras), custcon.WithNonblocking())
		relayManager = custff.NewRelayManager(relayPool, globalConfigs.Ffmpeg.BinaryPath)
		clipRecorder = custff.NewClipRecorder(custff.RecorderOptions{
			BinPath:     globalConfigs.Ffmpeg.BinaryPath,
			OutputDir:   globalConfigs.Bot.VideoGif.OutputDir,
			MaxDuration: 2 * globalConfigs.Bot.VideoGif.Duration,
			Scale:       globalConfigs.Bot.VideoGif.Scale,
		})

		replyPublisher = custmqtt.NewReplyPublisher(custmqtt.GlobalPublisher(), globalConfigs.Bot.Id)
		alarmMonitor = monitor.NewAlarmMonitor(replyPublisher, globalConfigs.Bot.AlertChats)

		reg, err := camera.BuildRegistry(globalConfigs.Cameras, func(cfg configs.CameraConfigs) registry.Control {
			return camera.NewHikvisionCamera(cfg, clientFor(cfg), relayManager, clipRecorder, alarmMonitor)
		})
		if err != nil {
			logger.SFatal("factory.Init: camera registry", zap.Error(err))
			return
		}
		cameraRegistry = reg

		eventDispatcher = dispatcher.New(
			dispatcher.WithPoolSize(globalConfigs.Bot.PoolSize),
			dispatcher.WithTimeout(globalConfigs.Bot.DispatchTimeout),
			dispatcher.WithReplyTimeout(globalConfigs.Bot.ReplyTimeout),
			dispatcher.WithRegisterer(metricsRegistry),
		)
		service.Init(custimg.NewResizer(), globalConfigs.Bot.VideoGif.Duration)
		service.RegisterAll(eventDispatcher)

		commandHandler = handlers.NewCommandHandler(
			auth.NewGate(globalConfigs.Bot.AllowedUsers),
			cameraRegistry,
			eventDispatcher,
			globalConfigs.Bot.ReplyTimeout,
		)

		healthProbe = monitor.NewHealthProbe(cameraRegistry, globalConfigs.Bot.HealthInterval)
		if err := healthProbe.Start(); err != nil {
			logger.SFatal("factory.Init: health probe", zap.Error(err))
			return
		}

		logger.SInfo("factory.Init: components ready",
			zap.Int("cameras", cameraRegistry.Count()))
	})
}

// Stop tears components down in reverse dependency order.
func Stop(ctx context.Context) {
	if healthProbe != nil {
		healthProbe.Stop()
	}
	if alarmMonitor != nil {
		alarmMonitor.StopAll(ctx)
	}
	if eventDispatcher != nil {
		eventDispatcher.Shutdown(ctx)
	}
	if clipRecorder != nil {
		clipRecorder.StopAll()
	}
	if relayManager != nil {
		relayManager.StopAll(ctx)
	}
	if relayPool != nil {
		relayPool.Release()
	}
}

func clientFor(cfg configs.CameraConfigs) hikvision.Client {
	if cfg.Api.Timeout <= 0 {
		return hikvisionClient
	}
	c, err := hikvision.NewClient(hikvision.WithTimeout(cfg.Api.Timeout))
	if err != nil {
		logger.SError("factory: per-camera client, using shared one",
			zap.String("cameraId", cfg.Id),
			zap.Error(err))
		return hikvisionClient
	}
	return c
}

func relayPoolSize(cameras []configs.CameraConfigs) int {
	size := 0
	for _, c := range cameras {
		size += len(c.Streams)
	}
	if size == 0 {
		return 1
	}
	return size
}

func Metrics() *prometheus.Registry {
	return metricsRegistry
}

func Cameras() *registry.Registry {
	return cameraRegistry
}

func Commands() *handlers.CommandHandler {
	return commandHandler
}

func Replies() *custmqtt.ReplyPublisher {
	return replyPublisher
}
