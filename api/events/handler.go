package eventsapi

import (
	"context"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/cache"
	custcon "github.com/CE-Thesis-2023/hikcamerabot/internal/concurrent"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/bytedance/sonic"
	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

type CommandRunner interface {
	HandleText(ctx context.Context, text string, requester chat.Requester, sink chat.ReplySink) error
}

type SinkProvider interface {
	SinkFor(commandId string, chatId string) chat.ReplySink
}

type handlerOptions struct {
	poolSize     int
	dedupWindow  time.Duration
	replyTimeout time.Duration
}

type HandlerOptioner func(o *handlerOptions)

func WithIntakePoolSize(size int) HandlerOptioner {
	return func(o *handlerOptions) {
		if size > 0 {
			o.poolSize = size
		}
	}
}

func WithReplyTimeout(d time.Duration) HandlerOptioner {
	return func(o *handlerOptions) {
		if d > 0 {
			o.replyTimeout = d
		}
	}
}

func WithDedupWindow(d time.Duration) HandlerOptioner {
	return func(o *handlerOptions) {
		o.dedupWindow = d
	}
}

type StandardEventHandler struct {
	pool     *ants.Pool
	dedup    *cache.Deduplicator
	commands CommandRunner
	sinks    SinkProvider
	options  *handlerOptions
}

func NewStandardEventHandler(commands CommandRunner, sinks SinkProvider, options ...HandlerOptioner) *StandardEventHandler {
	opts := &handlerOptions{
		poolSize:     32,
		dedupWindow:  5 * time.Minute,
		replyTimeout: 10 * time.Second,
	}
	for _, o := range options {
		o(opts)
	}
	return &StandardEventHandler{
		pool:     custcon.New(opts.poolSize, custcon.WithNonblocking()),
		dedup:    cache.NewDeduplicator(cache.New(), opts.dedupWindow),
		commands: commands,
		sinks:    sinks,
		options:  opts,
	}
}

// ReceiveRemoteCommands decodes a chat command and hands it to the intake
// pool. The router goroutine never waits on the pipeline.
func (h *StandardEventHandler) ReceiveRemoteCommands(p *paho.Publish) error {
	logger.SDebug("ReceiveRemoteCommands", zap.Int("size", len(p.Payload)))

	var msg events.CommandRequest
	if err := sonic.Unmarshal(p.Payload, &msg); err != nil {
		logger.SError("ReceiveRemoteCommands: message parsing failed", zap.Error(err))
		return custerror.FormatInvalidArgument("message parsing failed: %s", err)
	}

	if h.dedup.Seen(msg.MessageId) {
		logger.SDebug("ReceiveRemoteCommands: duplicated message dropped",
			zap.String("messageId", msg.MessageId))
		return nil
	}

	switch msg.MessageType {
	case events.Message_Command:
		var info events.CommandInfo
		if err := mapstructure.Decode(msg.Info, &info); err != nil {
			logger.SError("ReceiveRemoteCommands: Message_Command",
				zap.String("error", "info not type CommandInfo"))
			return custerror.FormatInvalidArgument("info not type CommandInfo: %s", err)
		}
		return h.submit(msg.MessageId, &info)
	default:
		logger.SError("ReceiveRemoteCommands: unknown message type",
			zap.String("type", string(msg.MessageType)),
			zap.String("do", "skipping"))
	}
	return nil
}

func (h *StandardEventHandler) submit(messageId string, info *events.CommandInfo) error {
	commandId := messageId
	if commandId == "" {
		commandId = uuid.NewString()
	}
	requester := chat.Requester{
		UserId:   info.UserId,
		ChatId:   info.ChatId,
		Username: info.Username,
	}
	sink := h.sinks.SinkFor(commandId, info.ChatId)

	if err := h.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.options.replyTimeout)
		defer func() {
			if ctx.Err() != nil {
				logger.SDebug("ReceiveRemoteCommands: context exceeded",
					zap.String("commandId", commandId))
			}
			cancel()
		}()
		if err := h.commands.HandleText(ctx, info.Text, requester, sink); err != nil {
			logger.SError("ReceiveRemoteCommands: command not answered",
				zap.String("commandId", commandId),
				zap.Error(err))
		}
	}); err != nil {
		logger.SWarn("ReceiveRemoteCommands: intake pool rejected command",
			zap.String("commandId", commandId),
			zap.Error(err))
		ctx, cancel := context.WithTimeout(context.Background(), h.options.replyTimeout)
		defer cancel()
		if sendErr := sink.Send(ctx, chat.FailureReply("Busy, try again shortly")); sendErr != nil {
			logger.SError("ReceiveRemoteCommands: busy reply not delivered",
				zap.String("commandId", commandId),
				zap.Error(sendErr))
		}
		return custerror.FormatUnavailable("intake pool: %s", err)
	}

	logger.SDebug("ReceiveRemoteCommands: goroutine assigned",
		zap.String("commandId", commandId))
	return nil
}

func (h *StandardEventHandler) Shutdown() {
	h.pool.Release()
}
