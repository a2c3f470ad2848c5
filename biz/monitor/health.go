package monitor

import (
	"context"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/carlmjohnson/flowmatic"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const probeWorkers = 8

type HealthProbe struct {
	reg          *registry.Registry
	scheduler    *gocron.Scheduler
	interval     time.Duration
	probeTimeout time.Duration
	now          func() time.Time
}

func NewHealthProbe(reg *registry.Registry, interval time.Duration) *HealthProbe {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	timeout := interval / 2
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return &HealthProbe{
		reg:          reg,
		scheduler:    s,
		interval:     interval,
		probeTimeout: timeout,
		now:          time.Now,
	}
}

// Start schedules the probe. The first round runs immediately.
func (p *HealthProbe) Start() error {
	if _, err := p.scheduler.Every(p.interval).Do(p.runScheduled); err != nil {
		return err
	}
	p.scheduler.StartAsync()
	logger.SInfo("monitor.HealthProbe: started",
		zap.Duration("interval", p.interval))
	return nil
}

func (p *HealthProbe) Stop() {
	p.scheduler.Stop()
	logger.SInfo("monitor.HealthProbe: stopped")
}

func (p *HealthProbe) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()
	p.ProbeAll(ctx)
}

// ProbeAll probes every registered camera concurrently and records the result
// on its handle.
func (p *HealthProbe) ProbeAll(ctx context.Context) {
	cameras := p.reg.All()
	if len(cameras) == 0 {
		return
	}
	_ = flowmatic.Each(probeWorkers, cameras, func(h *registry.CameraHandle) error {
		p.probe(ctx, h)
		return nil
	})
}

func (p *HealthProbe) probe(ctx context.Context, h *registry.CameraHandle) {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	wasOnline := h.Online()
	err := h.Control.Probe(ctx)
	online := err == nil
	h.MarkProbed(online, p.now())

	switch {
	case !online && wasOnline:
		logger.SWarn("monitor.probe: camera went offline",
			zap.String("cameraId", h.Id),
			zap.Error(err))
	case online && !wasOnline:
		logger.SInfo("monitor.probe: camera is online",
			zap.String("cameraId", h.Id))
	case !online:
		logger.SDebug("monitor.probe: camera still offline",
			zap.String("cameraId", h.Id),
			zap.Error(err))
	}
}
