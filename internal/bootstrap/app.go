package bootstrap

import (
	space_summary_module "github.com/init-pkg/space-summary/internal/app/space-summary"
	"go.uber.org/fx"
)

func appOptions() fx.Option {
	return fx.Options(
		space_summary_module.Register(),

		fx.Invoke(
			Preload,
		),
	)
}
