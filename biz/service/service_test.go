package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeControl struct {
	mu sync.Mutex

	snapshot      []byte
	snapshotDelay time.Duration
	err           error
	clip          []byte

	recording bool
	stops     int
	calls     []string
}

func (f *fakeControl) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeControl) FetchSnapshot(ctx context.Context) ([]byte, error) {
	f.record("snapshot")
	if f.snapshotDelay > 0 {
		time.Sleep(f.snapshotDelay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeControl) StartRecording(ctx context.Context) error {
	f.record("start")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recording = true
	return f.err
}

func (f *fakeControl) StopRecording(ctx context.Context) ([]byte, error) {
	f.record("stop")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recording = false
	f.stops++
	return f.clip, nil
}

func (f *fakeControl) SetDetection(ctx context.Context, detector events.Detector, enabled bool) error {
	f.record("detection:" + string(detector))
	return f.err
}

func (f *fakeControl) SetIrcutMode(ctx context.Context, mode events.IrcutMode) error {
	f.record("ircut:" + string(mode))
	return f.err
}

func (f *fakeControl) SetStream(ctx context.Context, service events.StreamService, enabled bool) error {
	f.record("stream:" + string(service))
	return f.err
}

func (f *fakeControl) SetAlarm(ctx context.Context, enabled bool) error {
	f.record("alarm")
	return f.err
}

func (f *fakeControl) Probe(ctx context.Context) error {
	return f.err
}

type upperResizer struct{}

func (upperResizer) Resize(raw []byte) ([]byte, error) {
	return append([]byte("resized:"), raw...), nil
}

func newEvent(t *testing.T, control registry.Control, payload events.Payload) *dispatcher.Event {
	t.Helper()
	cam := registry.NewCameraHandle("front", "Front door", control)
	evt, err := dispatcher.NewEvent(cam, payload, chat.Requester{UserId: 1}, chat.NewChannelSink())
	require.NoError(t, err)
	return evt
}

func TestSnapshotService(t *testing.T) {
	control := &fakeControl{snapshot: []byte("jpeg")}
	s := NewSnapshotService(upperResizer{})
	s.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }

	evt := newEvent(t, control, events.TakeSnapshot{})
	reply, err := s.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), reply.Media)
	assert.Equal(t, chat.MediaPhoto, reply.MediaType)
	assert.Equal(t, "Front door, taken at 2026-10-19 08:30:00", reply.Text)
	assert.EqualValues(t, 1, evt.Camera.SnapshotsTaken())

	evt = newEvent(t, control, events.TakeSnapshot{Resize: true})
	reply, err = s.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, []byte("resized:jpeg"), reply.Media)
}

func TestSnapshotService_FailureLeavesCounter(t *testing.T) {
	control := &fakeControl{err: custerror.FormatUnavailable("camera unreachable")}
	evt := newEvent(t, control, events.TakeSnapshot{})

	_, err := NewSnapshotService(nil).Handle(context.Background(), evt)
	assert.Equal(t, custerror.CodeUnavailable, custerror.CodeOf(err))
	assert.EqualValues(t, 0, evt.Camera.SnapshotsTaken())
}

func TestSnapshotService_TimeoutLeavesCounter(t *testing.T) {
	control := &fakeControl{snapshot: []byte("jpeg"), snapshotDelay: 200 * time.Millisecond}
	cam := registry.NewCameraHandle("front", "Front door", control)

	d := dispatcher.New(dispatcher.WithTimeout(50 * time.Millisecond))
	d.Register(events.KindTakeSnapshot, NewSnapshotService(nil))

	sink := chat.NewChannelSink()
	evt, err := dispatcher.NewEvent(cam, events.TakeSnapshot{}, chat.Requester{UserId: 1}, sink)
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(evt))

	select {
	case reply := <-sink.C:
		assert.True(t, reply.Failed)
		assert.Contains(t, reply.Text, "Timed out")
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
	}

	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 0, cam.SnapshotsTaken())
	assert.Equal(t, dispatcher.StateFailed, evt.State())
	d.Shutdown(context.Background())
}

type slowResizer struct {
	delay time.Duration
}

func (r slowResizer) Resize(raw []byte) ([]byte, error) {
	time.Sleep(r.delay)
	return raw, nil
}

func TestSnapshotService_SlowResizeLeavesCounter(t *testing.T) {
	control := &fakeControl{snapshot: []byte("jpeg")}
	cam := registry.NewCameraHandle("front", "Front door", control)

	d := dispatcher.New(dispatcher.WithTimeout(50 * time.Millisecond))
	d.Register(events.KindTakeSnapshot, NewSnapshotService(slowResizer{delay: 150 * time.Millisecond}))

	sink := chat.NewChannelSink()
	evt, err := dispatcher.NewEvent(cam, events.TakeSnapshot{Resize: true}, chat.Requester{UserId: 1}, sink)
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(evt))

	select {
	case reply := <-sink.C:
		assert.True(t, reply.Failed)
		assert.Contains(t, reply.Text, "Timed out")
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
	}

	time.Sleep(250 * time.Millisecond)
	assert.EqualValues(t, 0, cam.SnapshotsTaken())
	d.Shutdown(context.Background())
}

func TestVideoGifService(t *testing.T) {
	control := &fakeControl{clip: []byte("mp4")}
	evt := newEvent(t, control, events.RecordVideoClip{})

	reply, err := NewVideoGifService(10*time.Millisecond).Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), reply.Media)
	assert.Equal(t, chat.MediaAnimation, reply.MediaType)
	assert.Equal(t, []string{"start", "stop"}, control.calls)
}

func TestVideoGifService_DeadlineStopsRecording(t *testing.T) {
	control := &fakeControl{clip: []byte("mp4")}
	evt := newEvent(t, control, events.RecordVideoClip{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewVideoGifService(time.Minute).Handle(ctx, evt)
	assert.Equal(t, custerror.CodeTimeout, custerror.CodeOf(err))
	assert.Equal(t, 1, control.stops)
	assert.False(t, control.recording)
}

func TestSettingsServices(t *testing.T) {
	cases := []struct {
		name    string
		handler dispatcher.Handler
		payload events.Payload
		call    string
		text    string
	}{
		{"motion on", NewDetectionService(), events.ConfigureDetection{Detector: events.DetectorMotion, Enable: true},
			"detection:motion", "Motion detection successfully enabled"},
		{"line off", NewDetectionService(), events.ConfigureDetection{Detector: events.DetectorLineCrossing},
			"detection:line", "Line crossing detection successfully disabled"},
		{"ir night", NewIrcutService(), events.ConfigureIrcutFilter{Mode: events.IrcutNight},
			"ircut:night", "IR-cut filter set to night"},
		{"youtube on", NewStreamService(), events.ConfigureStream{Service: events.StreamYoutube, Enable: true},
			"stream:youtube", "YouTube stream successfully started"},
		{"icecast off", NewStreamService(), events.ConfigureStream{Service: events.StreamIcecast},
			"stream:icecast", "Icecast stream successfully stopped"},
		{"alert on", NewAlarmService(), events.ConfigureAlarm{Enable: true},
			"alarm", "Alert mode enabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			control := &fakeControl{}
			reply, err := tc.handler.Handle(context.Background(), newEvent(t, control, tc.payload))
			require.NoError(t, err)
			assert.Equal(t, tc.text, reply.Text)
			assert.Equal(t, []string{tc.call}, control.calls)
		})
	}
}

func TestSettingsServices_PropagateErrors(t *testing.T) {
	control := &fakeControl{err: custerror.FormatUpstream("camera rejected request")}
	_, err := NewIrcutService().Handle(context.Background(), newEvent(t, control, events.ConfigureIrcutFilter{Mode: events.IrcutDay}))
	assert.True(t, errors.Is(err, custerror.ErrorUpstream))
}

func TestWrongPayloadIsRejected(t *testing.T) {
	_, err := NewIrcutService().Handle(context.Background(), newEvent(t, &fakeControl{}, events.ConfigureAlarm{}))
	assert.Equal(t, custerror.CodeInternal, custerror.CodeOf(err))
}

func TestRegisterAll(t *testing.T) {
	Init(nil, time.Second)
	d := dispatcher.New()
	RegisterAll(d)

	control := &fakeControl{}
	cam := registry.NewCameraHandle("front", "Front door", control)
	sink := chat.NewChannelSink()
	evt, err := dispatcher.NewEvent(cam, events.ConfigureAlarm{Enable: true}, chat.Requester{UserId: 1}, sink)
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(evt))

	select {
	case reply := <-sink.C:
		assert.False(t, reply.Failed)
		assert.Equal(t, "Alert mode enabled", reply.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
	}
	d.Shutdown(context.Background())
}
