//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/focusquest/internal/config"
	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/combat"
	"github.com/cory-johannsen/focusquest/internal/game/inventory"
	"github.com/cory-johannsen/focusquest/internal/game/progression"
	"github.com/cory-johannsen/focusquest/internal/gameserver"
)

var providerSet = wire.NewSet(
	provideLogger,
	provideCatalog,
	provideCharacterStore,
	provideRedisClient,
	provideQuestStore,
	provideRoller,
	provideCombatConfig,
	provideProgressionConfig,
	provideSessionManager,
	combat.NewSimulator,
	progression.NewEngine,
	inventory.NewManager,
	wire.Bind(new(inventory.Catalog), new(*catalog.Catalog)),
	gameserver.NewService,
	wire.Struct(new(App), "*"),
)

func initializeApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
