//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"nicks/internal"
	"nicks/internal/controllers"
	"nicks/internal/migration"
	"nicks/internal/providers"
	"nicks/internal/services"
	"nicks/internal/snapshot"
	"nicks/internal/store"
	"nicks/internal/structures"
)

var storeSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewStoreProvider,
	wire.Bind(new(store.Store), new(store.Backend)),
)

var migrationSet = wire.NewSet(
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,

	migration.NewTranslator,
	migration.NewIntegrityChecker,
	migration.NewDbWeight,
	migration.NewRunner,
	services.NewMigrationService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		storeSet,
		migrationSet,

		services.NewNicknameService,
		snapshot.NewZstdCompressor,
		snapshot.NewManager,
		snapshot.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitMigrationService(cfg *structures.CliFlags) (services.MigrationServiceInterface, func(), error) {

	wire.Build(
		storeSet,
		migrationSet,
	)

	return nil, nil, nil
}

func InitSnapshotManager(cfg *structures.CliFlags) (snapshot.ManagerInterface, func(), error) {

	wire.Build(
		storeSet,

		snapshot.NewZstdCompressor,
		snapshot.NewManager,
	)

	return nil, nil, nil
}
