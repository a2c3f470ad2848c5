package registry

import (
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"go.uber.org/atomic"
)

type CameraHandle struct {
	Id          string
	Description string
	Control     Control

	capabilities map[events.Kind]struct{}

	snapshotsTaken atomic.Int64
	online         atomic.Bool
	lastSeen       atomic.Int64
}

// NewCameraHandle builds a handle. With no capabilities given the camera
// supports every kind.
func NewCameraHandle(id string, description string, control Control, capabilities ...events.Kind) *CameraHandle {
	if len(capabilities) == 0 {
		capabilities = events.AllKinds
	}
	caps := make(map[events.Kind]struct{}, len(capabilities))
	for _, k := range capabilities {
		caps[k] = struct{}{}
	}
	return &CameraHandle{
		Id:           id,
		Description:  description,
		Control:      control,
		capabilities: caps,
	}
}

func (h *CameraHandle) Supports(kind events.Kind) bool {
	_, found := h.capabilities[kind]
	return found
}

// Capabilities returns the capability set in presentation order.
func (h *CameraHandle) Capabilities() []events.Kind {
	caps := make([]events.Kind, 0, len(h.capabilities))
	for _, k := range events.AllKinds {
		if h.Supports(k) {
			caps = append(caps, k)
		}
	}
	return caps
}

func (h *CameraHandle) SnapshotsTaken() int64 {
	return h.snapshotsTaken.Load()
}

func (h *CameraHandle) IncSnapshotsTaken() int64 {
	return h.snapshotsTaken.Inc()
}

func (h *CameraHandle) Online() bool {
	return h.online.Load()
}

func (h *CameraHandle) LastSeen() time.Time {
	ts := h.lastSeen.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(0, ts)
}

func (h *CameraHandle) MarkProbed(online bool, at time.Time) {
	h.online.Store(online)
	if online {
		h.lastSeen.Store(at.UnixNano())
	}
}
