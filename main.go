package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/go-probgol/utils"
)

const (
	configFile   = "config.json"
	minFrameRate = time.Millisecond
)

func main() {
	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(configFile)
	if err != nil {
		log.Printf("Using default configuration: %v", err)
		config = utils.DefaultConfig()
	}

	pair, lanes, renderer, err := initializeGame(config)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	displayGameInfo(config, pair)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(max(config.FrameRate, minFrameRate))
	defer ticker.Stop()

	var (
		generation    = 0
		lastFrameTime = time.Now()
	)

	for {
		frameStart := time.Now()
		frameDuration := frameStart.Sub(lastFrameTime)
		lastFrameTime = frameStart

		renderer.Clear()
		renderer.DisplayLanes(pair.Baseline, pair.Variant)
		for _, l := range lanes {
			livingCells, status := updateLaneState(l, generation, frameDuration)
			displayLaneStatus(l, livingCells, status)
		}
		displayGameStatus(generation, pair, lanes[0].stats)

		if done, reason := checkStopConditions(pair, generation, config); done {
			log.Printf("Simulation stopped: %s", reason)
			return
		}

		select {
		case <-ctx.Done():
			log.Printf("Shutting down after %d generations in %.1f seconds",
				generation, time.Since(lanes[0].stats.StartTime).Seconds())
			return
		case <-ticker.C:
		}

		if err = pair.Step(ctx); err != nil {
			log.Printf("Step interrupted: %v", err)
			return
		}
		generation++
	}
}
