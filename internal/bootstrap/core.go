package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"slices"
	"strings"

	swagger "github.com/Flussen/swagger-fiber-v3"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	_ "github.com/init-pkg/space-summary/docs"
	"github.com/init-pkg/space-summary/domain/dtos"
	"github.com/init-pkg/space-summary/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.MustLoad,
			newLogger,
			newHttpApp,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(registerHttpLifecycle),
	)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("env", cfg.Env)
}

func newHttpApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	mainApp := fiber.New(fiber.Config{
		AppName:      "space-summary",
		BodyLimit:    cfg.BodyLimit(),
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		ErrorHandler: errorHandler(log),
	})

	mainApp.Use(recover.New())
	mainApp.Use(cors.New(cors.Config{
		AllowOriginsFunc: allowOrigin(cfg.Http.AllowOrigins),
	}))

	mainApp.Get("/", func(fctx fiber.Ctx) error {
		return fctx.JSON(dtos.MessageResponse{Message: "Backend running!"})
	})
	mainApp.Get("/healthz", func(fctx fiber.Ctx) error {
		return fctx.SendString("ok")
	})
	mainApp.Get("/swagger/*", swagger.HandlerDefault)

	return mainApp
}

func allowOrigin(origins []string) func(string) bool {
	return func(origin string) bool {
		return slices.ContainsFunc(origins, func(allowed string) bool {
			return allowed == "*" || strings.EqualFold(strings.TrimSpace(allowed), origin)
		})
	}
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(fctx fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled http error", "path", fctx.Path(), "error", err)
		}
		return fctx.Status(code).JSON(dtos.ErrorResponse{Detail: err.Error()})
	}
}

func registerHttpLifecycle(lc fx.Lifecycle, mainApp *fiber.App, cfg *config.Config, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Http.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := mainApp.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					log.Error("http server stopped", "error", err)
				}
			}()
			log.Info("http server started", "addr", cfg.Http.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return mainApp.ShutdownWithContext(ctx)
		},
	})
}
