package chat

import (
	"context"
	"sync"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
)

var ErrAlreadyReplied = custerror.FormatInternalError("reply already delivered")

// OnceSink lets exactly one reply through to the wrapped sink.
type OnceSink struct {
	mu   sync.Mutex
	sent bool
	sink ReplySink
}

func NewOnceSink(sink ReplySink) *OnceSink {
	if once, ok := sink.(*OnceSink); ok {
		return once
	}
	return &OnceSink{sink: sink}
}

func (s *OnceSink) Send(ctx context.Context, reply *Reply) error {
	s.mu.Lock()
	if s.sent {
		s.mu.Unlock()
		return ErrAlreadyReplied
	}
	s.sent = true
	s.mu.Unlock()
	return s.sink.Send(ctx, reply)
}

func (s *OnceSink) Sent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// ChannelSink hands the reply to a buffered channel, for callers that wait
// on the outcome synchronously.
type ChannelSink struct {
	C chan *Reply
}

func NewChannelSink() *ChannelSink {
	return &ChannelSink{C: make(chan *Reply, 1)}
}

func (s *ChannelSink) Send(ctx context.Context, reply *Reply) error {
	select {
	case s.C <- reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
