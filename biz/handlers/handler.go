package handlers

import (
	"context"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/auth"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/resolver"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(evt *dispatcher.Event) error
}

// CommandHandler turns inbound chat commands into dispatched events.
type CommandHandler struct {
	gate         *auth.Gate
	registry     *registry.Registry
	resolver     *resolver.Resolver
	dispatcher   Dispatcher
	table        *CommandTable
	pipeline     *Pipeline
	replyTimeout time.Duration
}

func NewCommandHandler(gate *auth.Gate, reg *registry.Registry, d Dispatcher, replyTimeout time.Duration) *CommandHandler {
	h := &CommandHandler{
		gate:         gate,
		registry:     reg,
		resolver:     resolver.New(reg),
		dispatcher:   d,
		replyTimeout: replyTimeout,
	}
	h.table = NewCommandTable(map[string]Presenter{
		CmdStart:          h.presentStart,
		CmdHelp:           h.presentHelp,
		CmdListCameras:    h.presentCameras,
		CmdCameraCommands: h.presentCameraCommands,
	})
	h.pipeline = NewPipeline(
		h.authorize,
		h.route,
		h.present,
		h.resolve,
		h.buildEvent,
		h.dispatch,
	)
	return h
}

// Handle runs one command through the pipeline. It returns once the event is
// handed to the dispatcher, never waiting for camera I/O.
func (h *CommandHandler) Handle(ctx context.Context, cmd chat.Command, sink chat.ReplySink) error {
	if cmd.Id == "" {
		cmd.Id = uuid.NewString()
	}
	logger.SDebug("command received",
		zap.String("commandId", cmd.Id),
		zap.String("name", cmd.Name),
		zap.Strings("args", cmd.Args),
		zap.Int64("userId", cmd.Requester.UserId))

	ctx, cancel := context.WithTimeout(ctx, h.replyTimeout)
	defer cancel()

	return h.pipeline.Run(ctx, &Request{
		Command: cmd,
		Sink:    chat.NewOnceSink(sink),
	})
}

// HandleText parses raw chat text before running it through the pipeline.
func (h *CommandHandler) HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error {
	name, args, ok := chat.ParseCommand(text)
	if !ok {
		return sink.Send(ctx, chat.FailureReply("Send a command, see /help"))
	}
	return h.Handle(ctx, chat.Command{
		Name:      name,
		Args:      args,
		Requester: requester,
	}, sink)
}

func (h *CommandHandler) Table() *CommandTable {
	return h.table
}
