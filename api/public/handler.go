package publicapi

import (
	"context"
	"strings"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/rest"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CommandRunner interface {
	HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error
}

type Handlers struct {
	cameras  *registry.Registry
	commands CommandRunner
	// wait bounds how long POST /api/commands holds the request open for the
	// command's single reply.
	wait time.Duration
}

func NewHandlers(cameras *registry.Registry, commands CommandRunner, wait time.Duration) *Handlers {
	return &Handlers{
		cameras:  cameras,
		commands: commands,
		wait:     wait,
	}
}

func GETHealthcheck(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusOK)
}

func (h *Handlers) GETListCameras(ctx *fiber.Ctx) error {
	handles := h.cameras.All()
	resp := &rest.ListCamerasResponse{
		Cameras: make([]rest.CameraInfo, 0, len(handles)),
	}
	for _, c := range handles {
		info := rest.CameraInfo{
			Id:             c.Id,
			Description:    c.Description,
			Online:         c.Online(),
			SnapshotsTaken: c.SnapshotsTaken(),
		}
		for _, k := range c.Capabilities() {
			info.Capabilities = append(info.Capabilities, string(k))
		}
		if seen := c.LastSeen(); !seen.IsZero() {
			info.LastSeen = &seen
		}
		resp.Cameras = append(resp.Cameras, info)
	}
	logger.SDebug("GETListCameras", zap.Int("count", len(resp.Cameras)))
	return ctx.JSON(resp)
}

func (h *Handlers) POSTCommand(ctx *fiber.Ctx) error {
	var req rest.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		logger.SError("POSTCommand: parse request error",
			zap.Error(err))
		return custerror.FormatInvalidArgument("malformed request body: %s", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return custerror.FormatInvalidArgument("text is required")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), h.wait)
	defer cancel()

	sink := chat.NewChannelSink()
	if err := h.commands.HandleText(waitCtx, req.Text, chat.Requester{
		UserId:   req.UserId,
		ChatId:   req.ChatId,
		Username: req.Username,
	}, sink); err != nil {
		return err
	}

	select {
	case reply := <-sink.C:
		logger.SDebug("POSTCommand: replied",
			zap.String("text", req.Text),
			zap.Bool("failed", reply.Failed))
		return ctx.JSON(&rest.CommandResponse{
			Text:      reply.Text,
			Format:    string(reply.Format),
			MediaType: string(reply.MediaType),
			Media:     reply.Media,
			Failed:    reply.Failed,
		})
	case <-waitCtx.Done():
		logger.SWarn("POSTCommand: no reply in time",
			zap.String("text", req.Text),
			zap.Duration("wait", h.wait))
		return custerror.FormatTimeout("no reply within %s", h.wait)
	}
}
