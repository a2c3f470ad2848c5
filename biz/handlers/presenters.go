package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
)

func (h *CommandHandler) presentStart(ctx context.Context, req *Request) *chat.Reply {
	return chat.TextReply(fmt.Sprintf("Hello, %s! Use /%s to see your cameras and /%s for everything else.",
		displayName(req.Command.Requester), CmdListCameras, CmdHelp))
}

func (h *CommandHandler) presentHelp(ctx context.Context, req *Request) *chat.Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "/%s - list cameras\n", CmdListCameras)
	fmt.Fprintf(&b, "/%s_<camera> - commands of one camera\n\n", CmdCameraCommands)
	b.WriteString("Camera commands take the camera as /<command>_<camera> or /<command> <camera>:\n")
	for _, c := range h.table.CameraCommands() {
		fmt.Fprintf(&b, "\n/%s - %s", c.Name, c.Description)
	}
	return chat.TextReply(b.String())
}

func (h *CommandHandler) presentCameras(ctx context.Context, req *Request) *chat.Reply {
	cameras := h.registry.All()
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d camera(s)", len(cameras))
	for _, cam := range cameras {
		fmt.Fprintf(&b, "\n\n%s (%s)\nStatus: %s\nCommands: /%s_%s",
			cam.Description, cam.Id, cameraStatus(cam), CmdCameraCommands, cam.Id)
	}
	return chat.TextReply(b.String())
}

func (h *CommandHandler) presentCameraCommands(ctx context.Context, req *Request) *chat.Reply {
	camera, err := h.resolver.ResolveOne(req.Selector, "")
	if err != nil {
		return h.resolveFailure(req, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", camera.Description, camera.Id)
	for _, kind := range camera.Capabilities() {
		fmt.Fprintf(&b, "\n\n%s:", capitalize(kind.Description()))
		for _, c := range h.table.CameraCommands() {
			if c.Kind == kind {
				fmt.Fprintf(&b, "\n/%s_%s - %s", c.Name, camera.Id, c.Description)
			}
		}
	}
	return chat.TextReply(b.String())
}

func displayName(r chat.Requester) string {
	if r.Username != "" {
		return r.Username
	}
	return fmt.Sprintf("user %d", r.UserId)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
