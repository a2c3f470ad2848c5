package custmqtt

import (
	"context"
	"fmt"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/bytedance/sonic"
	"github.com/eclipse/paho.golang/paho"
	"go.uber.org/zap"
)

// Publisher is the part of the connection manager used to send messages.
type Publisher interface {
	Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error)
}

func ReplyTopic(botId string, chatId string) string {
	return fmt.Sprintf("replies/%s/%s", botId, chatId)
}

func AlertTopic(botId string) string {
	return fmt.Sprintf("alerts/%s", botId)
}

func CommandTopic(botId string) string {
	return fmt.Sprintf("commands/%s", botId)
}

type ReplyPublisher struct {
	client Publisher
	botId  string
}

func NewReplyPublisher(client Publisher, botId string) *ReplyPublisher {
	return &ReplyPublisher{
		client: client,
		botId:  botId,
	}
}

// SinkFor returns a sink publishing replies for one command into its chat.
func (p *ReplyPublisher) SinkFor(commandId string, chatId string) chat.ReplySink {
	return chat.ReplySinkFunc(func(ctx context.Context, reply *chat.Reply) error {
		return p.publish(ctx, ReplyTopic(p.botId, chatId), &events.ReplyMessage{
			CommandId: commandId,
			ChatId:    chatId,
			Text:      reply.Text,
			Format:    string(reply.Format),
			Media:     reply.Media,
			MediaType: string(reply.MediaType),
			Failed:    reply.Failed,
		})
	})
}

func (p *ReplyPublisher) PublishAlert(ctx context.Context, msg *events.AlertMessage) error {
	return p.publish(ctx, AlertTopic(p.botId), msg)
}

func (p *ReplyPublisher) publish(ctx context.Context, topic string, msg interface{}) error {
	payload, err := sonic.Marshal(msg)
	if err != nil {
		return custerror.FormatInternalError("unable to encode message: %s", err)
	}
	if _, err := p.client.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     1,
		Payload: payload,
		Properties: &paho.PublishProperties{
			ContentType: "application/json",
		},
	}); err != nil {
		logger.SError("MQTT publish failed",
			zap.String("topic", topic),
			zap.Error(err))
		return custerror.FormatUnavailable("unable to publish to %s: %s", topic, err)
	}
	logger.SDebug("MQTT message published",
		zap.String("topic", topic),
		zap.Int("size", len(payload)))
	return nil
}
