package app

import (
	"github.com/rawfidkshuvo/king-police-backend/internal/config"
	http_init "github.com/rawfidkshuvo/king-police-backend/internal/delivery/http/init"
	http_room "github.com/rawfidkshuvo/king-police-backend/internal/delivery/http/room"
	ws_room "github.com/rawfidkshuvo/king-police-backend/internal/delivery/ws/room"
	infra_memory_room "github.com/rawfidkshuvo/king-police-backend/internal/infra/memory/room"
	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	"github.com/rawfidkshuvo/king-police-backend/internal/service/shuffle"
	usecase_game "github.com/rawfidkshuvo/king-police-backend/internal/usecase/game"
)

func Go(cfg *config.Config) {
	registry := infra_memory_room.New()
	shuffler := shuffle.New(cfg.Game.ShuffleSeed)

	gameUC := usecase_game.New(registry, shuffler, model.GuessSchema(cfg.Game.GuessSchema))

	hub := ws_room.NewHub(ws_room.WithRevealRoles(cfg.Game.RevealRoles))
	go hub.Run()

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_room.New(gameUC, hub))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
