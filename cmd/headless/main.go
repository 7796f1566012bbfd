package main

import (
	"flag"
	"log"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "config/headless.yaml", "flock configuration, JSON or YAML")
	schemaFile := flag.String("schema", "config/config.schema.json", "JSON schema the configuration must satisfy")
	ticks := flag.Int("ticks", 3600, "number of steps to run")
	dt := flag.Duration("dt", time.Second/60, "simulated time per step")
	every := flag.Int("every", 600, "log flock metrics every n steps")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configFile, *schemaFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := golog.DefaultLogger
	// no renderer, so no debug targets to record
	opts := append(cfg.FlockOptions(logger), flock.WithDebugTargets(false))
	f, err := flock.New(cfg.FlockSettings(), opts...)
	if err != nil {
		log.Fatalf("Failed to create flock: %v", err)
	}
	f.Scatter(cfg.InitialAgents)
	logger.Infof("Running %d agents for %d ticks of %s with %d workers", f.Len(), *ticks, *dt, cfg.Workers)

	step := dt.Seconds() * cfg.TimeScale
	start := time.Now()
	for i := 1; i <= *ticks; i++ {
		if !f.Step(step, flock.SteerNone) {
			log.Fatalf("Invalid step %v", step)
		}
		if *every > 0 && i%*every == 0 {
			m := f.Metrics()
			logger.Infof("📊 Tick %d | Agents: %d | Polarization: %.3f | Centroid: %s | %s/tick",
				m.Tick, m.Agents, m.Polarization, m.Centroid, time.Since(start)/time.Duration(i))
		}
	}
	logger.Infof("Done: %d ticks in %s", f.Tick(), time.Since(start))
}
