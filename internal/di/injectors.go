//go:build wireinject
// +build wireinject

package di

import (
	"dtrplay/internal"
	"dtrplay/internal/classifier"
	"dtrplay/internal/controllers"
	"dtrplay/internal/persistence"
	"dtrplay/internal/persistence/interfaces"
	"dtrplay/internal/providers"
	"dtrplay/internal/services"
	"dtrplay/internal/structures"
	"dtrplay/internal/views"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewNoticeProvider,

		classifier.NewClient,
		persistence.NewZstdCompressor,
		persistence.NewColdStorageProvider,
		services.NewSessionService,
		wire.Bind(new(interfaces.SnapshotStoreInterface), new(services.SessionServiceInterface)),
		persistence.NewFileManager,
		persistence.NewScheduler,

		views.NewRenderer,
		controllers.NewSessionResolver,
		controllers.NewApiController,
		controllers.NewUiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
