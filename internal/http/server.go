package custhttp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type HttpServer struct {
	app     *fiber.App
	configs *configs.HttpConfigs
}

type serverOptions struct {
	configs      *configs.HttpConfigs
	errorHandler fiber.ErrorHandler
	registration func(app *fiber.App)
	middlewares  []fiber.Handler
}

type ServerOptioner func(o *serverOptions)

func WithGlobalConfigs(c *configs.HttpConfigs) ServerOptioner {
	return func(o *serverOptions) {
		o.configs = c
	}
}

func WithErrorHandler(h fiber.ErrorHandler) ServerOptioner {
	return func(o *serverOptions) {
		o.errorHandler = h
	}
}

func WithRegistration(r func(app *fiber.App)) ServerOptioner {
	return func(o *serverOptions) {
		o.registration = r
	}
}

func WithMiddleware(m ...fiber.Handler) ServerOptioner {
	return func(o *serverOptions) {
		o.middlewares = append(o.middlewares, m...)
	}
}

func New(options ...ServerOptioner) *HttpServer {
	opts := &serverOptions{
		configs: &configs.HttpConfigs{Name: "public", Port: 8080},
	}
	for _, o := range options {
		o(opts)
	}

	cfg := fiber.Config{
		AppName:               opts.configs.Name,
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
	}
	if opts.errorHandler != nil {
		cfg.ErrorHandler = opts.errorHandler
	}

	app := fiber.New(cfg)
	for _, m := range opts.middlewares {
		app.Use(m)
	}
	if opts.registration != nil {
		opts.registration(app)
	}

	return &HttpServer{
		app:     app,
		configs: opts.configs,
	}
}

func (s *HttpServer) Name() string {
	return s.configs.Name
}

func (s *HttpServer) App() *fiber.App {
	return s.app
}

func (s *HttpServer) Start() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.configs.Port))
}

func (s *HttpServer) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func CommonPublicMiddlewares(c *configs.HttpConfigs) []fiber.Handler {
	return []fiber.Handler{
		recover.New(),
		requestLogger(),
	}
}

func requestLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		logger.SDebug("HTTP request",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return err
	}
}

// GlobalErrorHandler renders coded errors with a matching HTTP status.
func GlobalErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		var custErr *custerror.CustomError
		if !errors.As(err, &custErr) {
			logger.SError("unhandled HTTP error", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		return ctx.Status(StatusOf(custErr.Code)).JSON(fiber.Map{
			"error": custErr.Message,
			"code":  custerror.CodeName(custErr.Code),
		})
	}
}

func StatusOf(code uint32) int {
	switch code {
	case custerror.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case custerror.CodePermissionDenied:
		return fiber.StatusForbidden
	case custerror.CodeNotFound:
		return fiber.StatusNotFound
	case custerror.CodeAlreadyExists, custerror.CodeAmbiguous:
		return fiber.StatusConflict
	case custerror.CodeUnsupported:
		return fiber.StatusUnprocessableEntity
	case custerror.CodeUnavailable:
		return fiber.StatusServiceUnavailable
	case custerror.CodeUpstream:
		return fiber.StatusBadGateway
	case custerror.CodeTimeout:
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}
