package custff

import (
	"context"
	"os/exec"
	"sync"
	"time"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/avast/retry-go"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// CommandFactory turns a relay request into a runnable process.
type CommandFactory func(ctx context.Context, source string, destination string, args map[string]string) (*exec.Cmd, error)

type RelayInfo struct {
	Key         string
	Source      string
	Destination string
	StartedAt   time.Time
}

type relay struct {
	info   RelayInfo
	cancel context.CancelFunc
	done   chan struct{}
}

type RelayManager struct {
	mu     sync.Mutex
	relays map[string]*relay

	pool         *ants.Pool
	factory      CommandFactory
	attempts     uint
	restartDelay time.Duration
}

type RelayOptioner func(m *RelayManager)

func WithCommandFactory(f CommandFactory) RelayOptioner {
	return func(m *RelayManager) {
		m.factory = f
	}
}

func WithRestartPolicy(attempts uint, delay time.Duration) RelayOptioner {
	return func(m *RelayManager) {
		m.attempts = attempts
		m.restartDelay = delay
	}
}

func NewRelayManager(pool *ants.Pool, binPath string, options ...RelayOptioner) *RelayManager {
	m := &RelayManager{
		relays:       map[string]*relay{},
		pool:         pool,
		attempts:     3,
		restartDelay: 2 * time.Second,
		factory: func(ctx context.Context, source string, destination string, args map[string]string) (*exec.Cmd, error) {
			return NewFFmpegCommand().
				WithBinPath(binPath).
				WithSourceUrl(source).
				WithInputArguments(rtspInputArguments).
				WithOutputArguments(args).
				WithDestinationUrl(destination).
				Command(ctx)
		},
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Start launches a relay under key. Starting a relay that is already going
// is a no-op.
func (m *RelayManager) Start(key string, source string, destination string, args map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.relays[key]; found {
		logger.SInfo("relay already going", zap.String("key", key))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &relay{
		info: RelayInfo{
			Key:         key,
			Source:      source,
			Destination: destination,
			StartedAt:   time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if err := m.pool.Submit(func() {
		m.run(ctx, r, args)
	}); err != nil {
		cancel()
		return custerror.FormatUnavailable("relay pool is exhausted: %s", err)
	}
	m.relays[key] = r
	return nil
}

func (m *RelayManager) run(ctx context.Context, r *relay, args map[string]string) {
	defer close(r.done)
	defer m.forget(r)

	err := retry.Do(func() error {
		cmd, err := m.factory(ctx, r.info.Source, r.info.Destination, args)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		logger.SInfo("starting relay",
			zap.String("key", r.info.Key),
			zap.String("command", cmd.String()))
		return cmd.Run()
	},
		retry.Context(ctx),
		retry.Attempts(m.attempts),
		retry.Delay(m.restartDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.SInfo("relay exited, restarting",
				zap.String("key", r.info.Key),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}))
	if err != nil && ctx.Err() == nil {
		logger.SError("relay gave up",
			zap.String("key", r.info.Key),
			zap.Error(err))
		return
	}
	logger.SInfo("relay ended", zap.String("key", r.info.Key))
}

func (m *RelayManager) forget(r *relay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, found := m.relays[r.info.Key]; found && current == r {
		delete(m.relays, r.info.Key)
	}
}

// Stop cancels the relay under key and waits for its process to exit or ctx
// to end. Stopping an unknown relay is a no-op.
func (m *RelayManager) Stop(ctx context.Context, key string) error {
	m.mu.Lock()
	r, found := m.relays[key]
	if found {
		delete(m.relays, key)
	}
	m.mu.Unlock()

	if !found {
		logger.SInfo("relay not running", zap.String("key", key))
		return nil
	}

	r.cancel()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return custerror.FormatTimeout("relay %s did not stop in time", key)
	}
}

func (m *RelayManager) Running(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, found := m.relays[key]
	return found
}

func (m *RelayManager) List() []RelayInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]RelayInfo, 0, len(m.relays))
	for _, r := range m.relays {
		infos = append(infos, r.info)
	}
	return infos
}

func (m *RelayManager) StopAll(ctx context.Context) {
	logger.SInfo("shutting down relays")
	m.mu.Lock()
	keys := make([]string, 0, len(m.relays))
	for k := range m.relays {
		keys = append(keys, k)
	}
	m.mu.Unlock()

	for _, k := range keys {
		if err := m.Stop(ctx, k); err != nil {
			logger.SError("error shutting down relay",
				zap.String("key", k),
				zap.Error(err))
		}
	}
}
