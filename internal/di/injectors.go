//go:build wireinject
// +build wireinject

package di

import (
	"acctrack/internal"
	"acctrack/internal/backup"
	"acctrack/internal/controllers"
	"acctrack/internal/providers"
	"acctrack/internal/services"
	"acctrack/internal/storage"
	"acctrack/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		provideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewAccountStore,
		services.NewAccountService,
		provideCompressor,
		backup.NewFileManager,
		backup.NewScheduler,
		controllers.NewAccountController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
