package dispatcher

import (
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type State int32

const (
	StateConstructed State = iota
	StateDispatched
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateDispatched:
		return "dispatched"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Event is a single request to act on one camera. It is built per command
// and discarded after its outcome is delivered.
type Event struct {
	Id        string
	Camera    *registry.CameraHandle
	Payload   events.Payload
	Requester chat.Requester
	CreatedAt time.Time

	sink  *chat.OnceSink
	state atomic.Int32
}

// NewEvent rejects payloads the camera has no capability for, so an
// unsupported event never reaches a handler.
func NewEvent(camera *registry.CameraHandle, payload events.Payload, requester chat.Requester, sink chat.ReplySink) (*Event, error) {
	if camera == nil || payload == nil || sink == nil {
		return nil, custerror.FormatInvalidArgument("dispatcher.NewEvent: camera, payload and sink are required")
	}
	if !camera.Supports(payload.Kind()) {
		return nil, custerror.FormatUnsupported("camera %s does not support %s", camera.Id, payload.Kind().Description())
	}
	return &Event{
		Id:        uuid.NewString(),
		Camera:    camera,
		Payload:   payload,
		Requester: requester,
		CreatedAt: time.Now(),
		sink:      chat.NewOnceSink(sink),
	}, nil
}

func (e *Event) Kind() events.Kind {
	return e.Payload.Kind()
}

func (e *Event) State() State {
	return State(e.state.Load())
}

func (e *Event) setState(s State) {
	e.state.Store(int32(s))
}

func (e *Event) transition(from State, to State) bool {
	return e.state.CompareAndSwap(int32(from), int32(to))
}
