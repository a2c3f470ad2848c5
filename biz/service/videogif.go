package service

import (
	"context"
	"fmt"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"go.uber.org/zap"
)

const abandonTimeout = 5 * time.Second

type VideoGifService struct {
	duration time.Duration
}

func NewVideoGifService(duration time.Duration) *VideoGifService {
	return &VideoGifService{duration: duration}
}

func (s *VideoGifService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	if _, ok := evt.Payload.(events.RecordVideoClip); !ok {
		return nil, unexpectedPayload(evt)
	}
	camera := evt.Camera

	if err := camera.Control.StartRecording(ctx); err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		s.abandon(evt)
		return nil, custerror.FormatTimeout("recording on %s did not finish in time", camera.Id)
	}

	clip, err := camera.Control.StopRecording(ctx)
	if err != nil {
		return nil, err
	}

	return &chat.Reply{
		Text:      fmt.Sprintf("%s, %d second clip", camera.Description, int(s.duration.Seconds())),
		Format:    chat.FormatPlain,
		Media:     clip,
		MediaType: chat.MediaAnimation,
	}, nil
}

// abandon stops a recording whose event already ran out of time, so the
// camera is free for the next request.
func (s *VideoGifService) abandon(evt *dispatcher.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), abandonTimeout)
	defer cancel()
	if _, err := evt.Camera.Control.StopRecording(ctx); err != nil {
		logger.SDebug("abandoned recording did not stop cleanly",
			zap.String("camera", evt.Camera.Id),
			zap.Error(err))
	}
}
