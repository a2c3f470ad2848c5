package main

import (
	"context"
	"time"

	eventsapi "github.com/CE-Thesis-2023/hikcamerabot/api/events"
	publicapi "github.com/CE-Thesis-2023/hikcamerabot/api/public"
	"github.com/CE-Thesis-2023/hikcamerabot/helper/factory"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/app"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custhttp "github.com/CE-Thesis-2023/hikcamerabot/internal/http"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	custmqtt "github.com/CE-Thesis-2023/hikcamerabot/internal/mqtt"

	"go.uber.org/zap"
)

func main() {
	app.Run(
		time.Second*10,
		func(configs *configs.Configs, zl *zap.Logger) []app.Optioner {
			// Routes bind to the components at registration time.
			factory.Init(context.Background(), configs)

			return []app.Optioner{
				app.WithHttpServer(custhttp.New(
					custhttp.WithGlobalConfigs(&configs.Public),
					custhttp.WithErrorHandler(custhttp.GlobalErrorHandler()),
					custhttp.WithRegistration(publicapi.ServiceRegistration()),
					custhttp.WithMiddleware(custhttp.CommonPublicMiddlewares(&configs.Public)...),
				)),
				app.WithFactoryHook(func() error {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()

					eventsapi.Init(
						ctx,
						factory.Commands(),
						factory.Replies(),
						eventsapi.WithIntakePoolSize(configs.Bot.IntakePoolSize),
						eventsapi.WithReplyTimeout(configs.Bot.ReplyTimeout),
					)

					custmqtt.InitClient(
						context.Background(),
						custmqtt.WithClientGlobalConfigs(&configs.MqttStore),
						custmqtt.WithOnReconnection(eventsapi.Register),
						custmqtt.WithOnConnectError(func(err error) {
							logger.Error("MQTT Connection failed", zap.Error(err))
						}),
						custmqtt.WithClientError(eventsapi.ClientErrorHandler),
						custmqtt.WithOnServerDisconnect(eventsapi.DisconnectHandler),
						custmqtt.WithHandlerRegister(eventsapi.RouterHandler()),
					)
					return nil
				}),
				app.WithShutdownHook(func(ctx context.Context) {
					if h := eventsapi.GetStandardEventsHandler(); h != nil {
						h.Shutdown()
					}
					factory.Stop(ctx)
					custmqtt.StopClient(ctx)
					logger.Close()
				}),
			}
		},
	)
}
