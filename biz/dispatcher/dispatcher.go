package dispatcher

import (
	"context"
	"sync"
	"time"

	custcon "github.com/CE-Thesis-2023/hikcamerabot/internal/concurrent"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Handler performs one kind of camera action.
type Handler interface {
	Handle(ctx context.Context, evt *Event) (*chat.Reply, error)
}

type HandlerFunc func(ctx context.Context, evt *Event) (*chat.Reply, error)

func (f HandlerFunc) Handle(ctx context.Context, evt *Event) (*chat.Reply, error) {
	return f(ctx, evt)
}

type Options struct {
	poolSize     int
	timeout      time.Duration
	replyTimeout time.Duration
	registerer   prometheus.Registerer
}

type Optioner func(o *Options)

func WithPoolSize(size int) Optioner {
	return func(o *Options) {
		o.poolSize = size
	}
}

// WithTimeout bounds every handler invocation.
func WithTimeout(d time.Duration) Optioner {
	return func(o *Options) {
		o.timeout = d
	}
}

func WithReplyTimeout(d time.Duration) Optioner {
	return func(o *Options) {
		o.replyTimeout = d
	}
}

func WithRegisterer(reg prometheus.Registerer) Optioner {
	return func(o *Options) {
		o.registerer = reg
	}
}

// Dispatcher routes events to their handlers on a worker pool and delivers
// exactly one outcome per dispatched event through the event's sink.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[events.Kind]Handler

	pool    *ants.Pool
	options *Options
	metrics *metrics
	running sync.WaitGroup
}

func New(options ...Optioner) *Dispatcher {
	opts := &Options{
		poolSize:     128,
		timeout:      30 * time.Second,
		replyTimeout: 10 * time.Second,
	}
	for _, o := range options {
		o(opts)
	}
	return &Dispatcher{
		handlers: make(map[events.Kind]Handler),
		pool:     custcon.New(opts.poolSize, custcon.WithNonblocking()),
		options:  opts,
		metrics:  newMetrics(opts.registerer),
	}
}

func (d *Dispatcher) Register(kind events.Kind, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = handler
}

func (d *Dispatcher) handler(kind events.Kind) (Handler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, found := d.handlers[kind]
	return h, found
}

// Dispatch hands the event to its handler and returns without waiting for
// it. Errors returned here have already been reported through the sink.
func (d *Dispatcher) Dispatch(evt *Event) error {
	if evt == nil {
		return custerror.FormatInvalidArgument("dispatcher.Dispatch: nil event")
	}
	if !evt.transition(StateConstructed, StateDispatched) {
		return custerror.FormatAlreadyExists("event %s already dispatched", evt.Id)
	}

	h, found := d.handler(evt.Kind())
	if !found {
		err := custerror.FormatNoHandler("no handler registered for %s", evt.Kind())
		logger.SError("Dispatch: no handler",
			zap.String("eventId", evt.Id),
			zap.String("kind", string(evt.Kind())))
		d.finish(evt, time.Now(), newOutcome(evt, nil, err))
		return err
	}

	start := time.Now()
	d.running.Add(1)
	d.metrics.inFlight.Inc()
	if err := d.pool.Submit(func() {
		defer d.running.Done()
		defer d.metrics.inFlight.Dec()
		d.run(evt, h, start)
	}); err != nil {
		d.running.Done()
		d.metrics.inFlight.Dec()
		logger.SError("Dispatch: pool submit failed",
			zap.String("eventId", evt.Id),
			zap.Error(err))
		failure := custerror.FormatUnavailable("too many requests in flight, try again shortly")
		d.finish(evt, start, newOutcome(evt, nil, failure))
		return failure
	}

	logger.SDebug("Dispatch: event assigned",
		zap.String("eventId", evt.Id),
		zap.String("kind", string(evt.Kind())),
		zap.String("camera", evt.Camera.Id))
	return nil
}

func (d *Dispatcher) run(evt *Event, h Handler, start time.Time) {
	evt.setState(StateRunning)

	ctx, cancel := context.WithTimeout(context.Background(), d.options.timeout)
	defer cancel()

	reply, err := d.invoke(ctx, evt, h)
	outcome := newOutcome(evt, reply, err)
	if !outcome.Succeeded() {
		logger.SInfo("run: event failed",
			zap.String("eventId", evt.Id),
			zap.String("kind", string(evt.Kind())),
			zap.String("camera", evt.Camera.Id),
			zap.Error(outcome.Err))
	}
	d.finish(evt, start, outcome)
}

type result struct {
	reply *chat.Reply
	err   error
}

// invoke waits for the handler or the deadline, whichever comes first. A
// handler ignoring ctx keeps its goroutine but no longer holds the outcome.
func (d *Dispatcher) invoke(ctx context.Context, evt *Event, h Handler) (*chat.Reply, error) {
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.SError("invoke: handler panicked",
					zap.String("eventId", evt.Id),
					zap.Any("panic", r))
				done <- result{err: custerror.FormatUpstream("handler crashed: %v", r)}
			}
		}()
		reply, err := h.Handle(ctx, evt)
		done <- result{reply: reply, err: err}
	}()

	select {
	case r := <-done:
		return r.reply, r.err
	case <-ctx.Done():
		return nil, custerror.FormatTimeout("no result after %s", d.options.timeout)
	}
}

func (d *Dispatcher) finish(evt *Event, start time.Time, outcome Outcome) {
	if outcome.Succeeded() {
		evt.setState(StateCompleted)
	} else {
		evt.setState(StateFailed)
	}
	d.metrics.dispatched.WithLabelValues(string(evt.Kind()), outcome.Label()).Inc()
	d.metrics.duration.WithLabelValues(string(evt.Kind())).Observe(time.Since(start).Seconds())

	ctx, cancel := context.WithTimeout(context.Background(), d.options.replyTimeout)
	defer cancel()
	if err := evt.sink.Send(ctx, outcome.Reply); err != nil {
		logger.SError("finish: reply delivery failed",
			zap.String("eventId", evt.Id),
			zap.Error(err))
	}
}

// Shutdown waits for in-flight events until ctx expires, then releases the pool.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.SDebug("Dispatcher.Shutdown: all events finished")
	case <-ctx.Done():
		logger.SInfo("Dispatcher.Shutdown: gave up waiting for in-flight events")
	}
	d.pool.Release()
}
