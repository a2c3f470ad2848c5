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

const captionTimeLayout = "2006-01-02 15:04:05"

type Resizer interface {
	Resize(raw []byte) ([]byte, error)
}

type SnapshotService struct {
	resizer Resizer
	now     func() time.Time
}

func NewSnapshotService(resizer Resizer) *SnapshotService {
	return &SnapshotService{
		resizer: resizer,
		now:     time.Now,
	}
}

func (s *SnapshotService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	payload, ok := evt.Payload.(events.TakeSnapshot)
	if !ok {
		return nil, unexpectedPayload(evt)
	}
	camera := evt.Camera

	raw, err := camera.Control.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, custerror.FormatTimeout("snapshot from %s arrived after the deadline", camera.Id)
	}
	takenAt := s.now()

	if payload.Resize && s.resizer != nil {
		raw, err = s.resizer.Resize(raw)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, custerror.FormatTimeout("snapshot from %s resized after the deadline", camera.Id)
		}
	}

	total := camera.IncSnapshotsTaken()
	logger.SDebug("snapshot taken",
		zap.String("camera", camera.Id),
		zap.Bool("resize", payload.Resize),
		zap.Int64("total", total))

	return &chat.Reply{
		Text:      fmt.Sprintf("%s, taken at %s", camera.Description, takenAt.Format(captionTimeLayout)),
		Format:    chat.FormatPlain,
		Media:     raw,
		MediaType: chat.MediaPhoto,
	}, nil
}

func unexpectedPayload(evt *dispatcher.Event) error {
	return custerror.FormatInternalError("unexpected payload %T for %s", evt.Payload, evt.Kind())
}
