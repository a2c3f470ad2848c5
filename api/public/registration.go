package publicapi

import (
	"github.com/CE-Thesis-2023/hikcamerabot/helper/factory"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceRegistration wires the routes to the components built by
// factory.Init, which must run before the server starts.
func ServiceRegistration() func(app *fiber.App) {
	return func(app *fiber.App) {
		bot := configs.Get().Bot
		Routes(
			NewHandlers(factory.Cameras(), factory.Commands(), bot.DispatchTimeout+bot.ReplyTimeout),
			factory.Metrics(),
		)(app)
	}
}

func Routes(h *Handlers, gatherer prometheus.Gatherer) func(app *fiber.App) {
	return func(app *fiber.App) {
		apiGroup := app.Group("/api")
		apiGroup.Get("/cameras", h.GETListCameras)
		apiGroup.Post("/commands", h.POSTCommand)

		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
		app.Get("/healthcheck", GETHealthcheck)
	}
}
