package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/resolver"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"

	"go.uber.org/zap"
)

func (h *CommandHandler) authorize(ctx context.Context, req *Request) *chat.Reply {
	if err := h.gate.Authorize(req.Command.Requester); err != nil {
		logger.SInfo("command denied",
			zap.Int64("userId", req.Command.Requester.UserId),
			zap.String("command", req.Command.Name),
			zap.Error(err))
		return chat.FailureReply("You are not allowed to use this bot")
	}
	return nil
}

func (h *CommandHandler) route(ctx context.Context, req *Request) *chat.Reply {
	spec, cameraId, found := h.table.Lookup(req.Command.Name)
	if !found {
		return chat.FailureReply(fmt.Sprintf("Unknown command /%s. See /help", req.Command.Name))
	}
	if cameraId == "" && len(req.Command.Args) > 0 {
		cameraId = req.Command.Args[0]
	}
	req.Spec = spec
	req.Selector = resolver.Selector{Id: h.canonicalId(cameraId)}
	return nil
}

// canonicalId maps a case-folded id back to the registered one, since
// command names arrive lowercased.
func (h *CommandHandler) canonicalId(id string) string {
	if id == "" {
		return id
	}
	if _, err := h.registry.Get(id); err == nil {
		return id
	}
	for _, cam := range h.registry.All() {
		if strings.EqualFold(cam.Id, id) {
			return cam.Id
		}
	}
	return id
}

func (h *CommandHandler) present(ctx context.Context, req *Request) *chat.Reply {
	if req.Spec.Present == nil {
		return nil
	}
	return req.Spec.Present(ctx, req)
}

func (h *CommandHandler) resolve(ctx context.Context, req *Request) *chat.Reply {
	camera, err := h.resolver.ResolveOne(req.Selector, req.Spec.Kind)
	if err != nil {
		return h.resolveFailure(req, err)
	}
	req.Camera = camera
	return nil
}

func (h *CommandHandler) resolveFailure(req *Request, err error) *chat.Reply {
	switch {
	case errors.Is(err, custerror.ErrorAmbiguous):
		return h.disambiguate(req)
	case errors.Is(err, custerror.ErrorNotFound):
		return chat.FailureReply(fmt.Sprintf("Camera %s not found. See /%s", req.Selector.Id, CmdListCameras))
	case errors.Is(err, custerror.ErrorUnsupported):
		return chat.FailureReply(capitalize(custerror.Classify(err).Message))
	}
	logger.SError("resolve: unexpected error", zap.Error(err))
	return chat.FailureReply("Something went wrong, try again later")
}

func (h *CommandHandler) disambiguate(req *Request) *chat.Reply {
	cameras := h.registry.All()
	if len(cameras) == 0 {
		return chat.FailureReply("No cameras configured")
	}
	capable := make([]*registry.CameraHandle, 0, len(cameras))
	for _, cam := range cameras {
		if req.Spec.Kind != "" && !cam.Supports(req.Spec.Kind) {
			continue
		}
		capable = append(capable, cam)
	}
	if len(capable) == 0 {
		return chat.FailureReply("No camera supports " + req.Spec.Kind.Description())
	}

	var b strings.Builder
	b.WriteString("Which camera? Choose one:\n")
	for _, cam := range capable {
		fmt.Fprintf(&b, "\n%s: /%s_%s", cam.Description, req.Spec.Name, cam.Id)
	}
	return chat.TextReply(b.String())
}

func (h *CommandHandler) buildEvent(ctx context.Context, req *Request) *chat.Reply {
	req.Payload = req.Spec.Build()
	evt, err := dispatcher.NewEvent(req.Camera, req.Payload, req.Command.Requester, req.Sink)
	if err != nil {
		logger.SInfo("buildEvent: rejected",
			zap.String("camera", req.Camera.Id),
			zap.String("kind", string(req.Payload.Kind())),
			zap.Error(err))
		return chat.FailureReply(fmt.Sprintf("Camera %s does not support %s", req.Camera.Id, req.Payload.Kind().Description()))
	}
	req.Event = evt
	return nil
}

// dispatch hands the event over. Any failure has already been reported
// through the event's sink.
func (h *CommandHandler) dispatch(ctx context.Context, req *Request) *chat.Reply {
	if err := h.dispatcher.Dispatch(req.Event); err != nil {
		logger.SInfo("dispatch: event not accepted",
			zap.String("eventId", req.Event.Id),
			zap.Error(err))
	}
	return nil
}

func cameraStatus(cam *registry.CameraHandle) string {
	if cam.LastSeen().IsZero() {
		return "unknown"
	}
	if cam.Online() {
		return "online"
	}
	return "offline"
}
