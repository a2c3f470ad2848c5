package custmqtt

import (
	"context"
	"sync"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"go.uber.org/zap"
)

var once sync.Once

var client *autopaho.ConnectionManager

func InitClient(ctx context.Context, options ...ClientOptioner) {
	once.Do(func() {
		client = NewClient(ctx, options...)
	})
}

func Client() *autopaho.ConnectionManager {
	return client
}

func StopClient(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.SError("MQTT disconnect failed", zap.Error(err))
		return
	}
	logger.SInfo("MQTT client disconnected")
}

type globalPublisher struct{}

// GlobalPublisher publishes through the client set up by InitClient. It can
// be handed out before the client exists.
func GlobalPublisher() Publisher {
	return globalPublisher{}
}

func (globalPublisher) Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error) {
	if client == nil {
		return nil, custerror.FormatUnavailable("MQTT client is not connected")
	}
	return client.Publish(ctx, p)
}
