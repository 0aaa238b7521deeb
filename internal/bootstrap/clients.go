package bootstrap

import (
	"github.com/init-pkg/space-summary/domain/app"
	rabbitmq_client "github.com/init-pkg/space-summary/internal/clients/rabbitmq"
	"go.uber.org/fx"
)

func clientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(rabbitmq_client.New, fx.As(new(app.SummaryNotifier))),
		),
	)
}
