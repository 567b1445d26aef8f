//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"mixd/internal"
	"mixd/internal/controllers"
	"mixd/internal/leaderboard"
	"mixd/internal/providers"
	"mixd/internal/services"
	"mixd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		wire.Bind(new(providers.StoreStatsInterface), new(*leaderboard.Store)),
		wire.Bind(new(leaderboard.StoreInterface), new(*leaderboard.Store)),

		leaderboard.NewFileManager,
		leaderboard.NewStore,
		leaderboard.NewZstdCompressor,
		leaderboard.NewBackupManager,
		leaderboard.NewScheduler,
		services.NewComboService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
