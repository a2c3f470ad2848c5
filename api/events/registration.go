package eventsapi

import (
	"context"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/helper"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	custmqtt "github.com/CE-Thesis-2023/hikcamerabot/internal/mqtt"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"go.uber.org/zap"
)

// Register subscribes on every (re)connection, since a clean session drops
// subscriptions.
func Register(cm *autopaho.ConnectionManager, connack *paho.Connack) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	subs := makeSubsciptions()
	if _, err := cm.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: subs,
	}); err != nil {
		logger.SError("unable to make MQTT subscriptions",
			zap.String("where", "api.events.Register"),
			zap.Reflect("subs", subs),
			zap.Error(err),
		)
		return
	}

	logger.SInfo("MQTT subscriptions made success", zap.Reflect("subs", subs))
}

func makeSubsciptions() []paho.SubscribeOptions {
	return []paho.SubscribeOptions{
		{Topic: custmqtt.CommandTopic(configs.Get().Bot.Id), QoS: 1},
	}
}

func ClientErrorHandler(err error) {
	logger := logger.Logger()

	logger.Error("MQTT Client", zap.Error(err))
}

func DisconnectHandler(d *paho.Disconnect) {
	logger := logger.Logger()

	reason := ""
	if d.Properties != nil {
		reason = d.Properties.ReasonString
	}
	logger.Error("MQTT Server Disconnect", zap.String("reason", reason))
}

func RouterHandler() custmqtt.RouterRegister {
	return func(router *paho.StandardRouter) {
		handlers := GetStandardEventsHandler()
		router.RegisterHandler(
			custmqtt.CommandTopic(configs.Get().Bot.Id),
			WrapForHandlers(handlers.ReceiveRemoteCommands),
		)
	}
}

func WrapForHandlers(handler func(p *paho.Publish) error) func(p *paho.Publish) {
	return func(p *paho.Publish) {
		if err := handler(p); err != nil {
			helper.EventHandlerErrorHandler(err)
		}
	}
}
