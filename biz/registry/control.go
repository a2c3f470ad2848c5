package registry

import (
	"context"

	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

// Control is the narrow camera collaborator the service handlers depend on.
type Control interface {
	FetchSnapshot(ctx context.Context) ([]byte, error)
	StartRecording(ctx context.Context) error
	// StopRecording ends the running recording and returns the encoded clip.
	StopRecording(ctx context.Context) ([]byte, error)
	SetDetection(ctx context.Context, detector events.Detector, enabled bool) error
	SetIrcutMode(ctx context.Context, mode events.IrcutMode) error
	SetStream(ctx context.Context, service events.StreamService, enabled bool) error
	SetAlarm(ctx context.Context, enabled bool) error
	// Probe checks that the camera answers at all.
	Probe(ctx context.Context) error
}
