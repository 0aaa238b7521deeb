package bootstrap

import (
	"go.uber.org/fx"
)

func Run() {
	app := fx.New(options())

	app.Run()
}

func options() fx.Option {
	return fx.Options(
		coreOptions(),
		appOptions(),
		clientsOptions(),
	)
}
