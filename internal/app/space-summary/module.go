package space_summary_module

import (
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/app/space-summary/decoder"
	space_summary_service "github.com/init-pkg/space-summary/internal/app/space-summary/service"
	"github.com/init-pkg/space-summary/internal/app/space-summary/store"
	space_summary_http_handler "github.com/init-pkg/space-summary/internal/app/space-summary/transports/http"
	"github.com/init-pkg/space-summary/internal/config"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(newDecoder, fx.As(new(decoder.Decoder))),
			newAnalysisCache,
			store.New,
			fx.Annotate(space_summary_service.New, fx.As(new(app.SpaceSummaryService))),
			space_summary_http_handler.NewUploadLimiterFromConfig,
			space_summary_http_handler.New,
		),
		fx.Invoke(func(h *space_summary_http_handler.SpaceSummaryHttpHandler, mainApp *fiber.App) {
			h.Register(mainApp)
		}),
	)
}

func newDecoder(cfg *config.Config) *decoder.SpreadsheetDecoder {
	return decoder.New(decoder.Options{FillMergedCells: cfg.Decoder.FillMergedCells})
}

func newAnalysisCache(cfg *config.Config) space_summary_service.AnalysisCache {
	return space_summary_service.NewMemAnalysisCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
}
