package eventsapi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"

	"github.com/eclipse/paho.golang/paho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	text      string
	requester chat.Requester
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	done  chan struct{}
}

func (f *fakeRunner) HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{text: text, requester: requester})
	f.mu.Unlock()
	f.done <- struct{}{}
	return sink.Send(ctx, chat.TextReply("ok"))
}

type fakeSinks struct {
	mu      sync.Mutex
	keys    []string
	replies []*chat.Reply
}

func (f *fakeSinks) SinkFor(commandId string, chatId string) chat.ReplySink {
	f.mu.Lock()
	f.keys = append(f.keys, commandId+"@"+chatId)
	f.mu.Unlock()
	return chat.ReplySinkFunc(func(ctx context.Context, reply *chat.Reply) error {
		f.mu.Lock()
		f.replies = append(f.replies, reply)
		f.mu.Unlock()
		return nil
	})
}

func newTestHandler() (*StandardEventHandler, *fakeRunner, *fakeSinks) {
	runner := &fakeRunner{done: make(chan struct{}, 8)}
	sinks := &fakeSinks{}
	return NewStandardEventHandler(runner, sinks, WithIntakePoolSize(2)), runner, sinks
}

func waitCall(t *testing.T, r *fakeRunner) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("command never reached the pipeline")
	}
}

func TestReceiveRemoteCommands(t *testing.T) {
	h, runner, sinks := newTestHandler()
	defer h.Shutdown()

	payload := []byte(`{"messageId":"m-1","type":"command","info":{"text":"/getpic_front","userId":42,"chatId":"c-7","username":"alice"}}`)
	require.NoError(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: payload}))
	waitCall(t, runner)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/getpic_front", runner.calls[0].text)
	assert.Equal(t, int64(42), runner.calls[0].requester.UserId)
	assert.Equal(t, "c-7", runner.calls[0].requester.ChatId)
	assert.Equal(t, []string{"m-1@c-7"}, sinks.keys)
}

func TestReceiveRemoteCommands_DropsRedelivery(t *testing.T) {
	h, runner, _ := newTestHandler()
	defer h.Shutdown()

	payload := []byte(`{"messageId":"m-2","type":"command","info":{"text":"/help","userId":42,"chatId":"c-7"}}`)
	require.NoError(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: payload}))
	require.NoError(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: payload}))
	waitCall(t, runner)

	time.Sleep(50 * time.Millisecond)
	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Len(t, runner.calls, 1)
}

func TestReceiveRemoteCommands_RejectsGarbage(t *testing.T) {
	h, _, _ := newTestHandler()
	defer h.Shutdown()

	assert.Error(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: []byte("{not json")}))
	assert.Error(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: []byte(`{"type":"command","info":{"userId":"not a number"}}`)}))
	assert.NoError(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: []byte(`{"type":"presence","info":{}}`)}))
}

func TestReceiveRemoteCommands_BusyPoolRepliesFailure(t *testing.T) {
	h, runner, sinks := newTestHandler()
	h.Shutdown()

	payload := []byte(`{"messageId":"m-3","type":"command","info":{"text":"/getpic","userId":42,"chatId":"c-7"}}`)
	err := h.ReceiveRemoteCommands(&paho.Publish{Payload: payload})
	require.Error(t, err)

	sinks.mu.Lock()
	defer sinks.mu.Unlock()
	require.Len(t, sinks.replies, 1)
	assert.True(t, sinks.replies[0].Failed)
	assert.Equal(t, "Busy, try again shortly", sinks.replies[0].Text)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Empty(t, runner.calls)
}

func TestReceiveRemoteCommands_FullPoolDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	runner := &blockingRunner{release: release, started: make(chan struct{}, 4)}
	sinks := &fakeSinks{}
	h := NewStandardEventHandler(runner, sinks, WithIntakePoolSize(1))
	defer h.Shutdown()
	defer close(release)

	first := []byte(`{"messageId":"m-4","type":"command","info":{"text":"/getvideo","userId":42,"chatId":"c-7"}}`)
	require.NoError(t, h.ReceiveRemoteCommands(&paho.Publish{Payload: first}))
	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first command never started")
	}

	second := []byte(`{"messageId":"m-5","type":"command","info":{"text":"/getpic","userId":42,"chatId":"c-7"}}`)
	returned := make(chan error, 1)
	go func() { returned <- h.ReceiveRemoteCommands(&paho.Publish{Payload: second}) }()

	select {
	case err := <-returned:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("intake blocked on a full pool")
	}

	sinks.mu.Lock()
	defer sinks.mu.Unlock()
	require.Len(t, sinks.replies, 1)
	assert.True(t, sinks.replies[0].Failed)
}

type blockingRunner struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingRunner) HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}
