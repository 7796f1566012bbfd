package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids/pkg/host"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "config/config.json", "flock configuration, JSON or YAML")
	schemaFile := flag.String("schema", "config/config.schema.json", "JSON schema the configuration must satisfy")
	quiet := flag.Bool("quiet", false, "discard actor system logs")
	flag.Parse()

	// 1. Configure the flock
	cfg, err := simulation.LoadConfig(*configFile, *schemaFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Start the actor system hosting the flock
	var logger golog.Logger = golog.DefaultLogger
	if *quiet {
		logger = golog.DiscardLogger
	}
	ctx := context.Background()
	system, err := actor.NewActorSystem("BoidsWorld", actor.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatalf("Failed to start actor system: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	game, err := host.NewGame(ctx, cfg, system)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: A/D or arrows to steer, click to spawn")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
