package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-probgol/engine"
	"github.com/sheikhrachel/go-probgol/model"
	"github.com/sheikhrachel/go-probgol/sim"
	"github.com/sheikhrachel/go-probgol/utils"
)

// historySize is how many recent board hashes each lane remembers for cycle detection
const historySize = 5

// lane pairs an engine with its display name, stats and recent history
type lane struct {
	name    string
	engine  *engine.Engine
	stats   *utils.Stats
	history []string
}

// record stores the current board hash, keeping only the last few
func (l *lane) record() {
	l.history = append(l.history, l.engine.Hash())
	if len(l.history) > historySize {
		l.history = l.history[1:]
	}
}

// isStagnant reports whether the current board repeats one of the last three recorded
func (l *lane) isStagnant() bool {
	if len(l.history) < 3 {
		return false
	}
	current := l.engine.Hash()
	for _, h := range l.history[len(l.history)-3:] {
		if h == current {
			return true
		}
	}
	return false
}

// initializeGame sets up both lanes from identical random boards
func initializeGame(config utils.Config) (*sim.Pair, []*lane, *model.TerminalRenderer, error) {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	pair, err := sim.NewPair(sim.Settings{
		Size:          config.Size,
		Wraparound:    config.Wraparound,
		Probabilities: config.Probabilities,
		Seed:          seed,
		Parallel:      config.UseParallel,
	})
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "[initializeGame] failed to build lanes")
	}
	if err = pair.Reset(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "[initializeGame] failed to seed lanes")
	}

	lanes := []*lane{
		{name: "Classic", engine: pair.Baseline, stats: utils.NewStats(config.StatsWindow)},
		{name: "Variant", engine: pair.Variant, stats: utils.NewStats(config.StatsWindow)},
	}
	return pair, lanes, &model.TerminalRenderer{}, nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, pair *sim.Pair) {
	p := config.Probabilities
	fmt.Printf("Grid: %dx%d | Wraparound: %v | Parallel counting: %v\n",
		config.Size, config.Size, config.Wraparound, config.UseParallel)
	fmt.Printf("Variant probabilities: under %.2f | survive %.2f | over %.2f | reproduce %.2f\n",
		p.Underpopulation, p.Survival, p.Overpopulation, p.Reproduction)
	fmt.Printf("Initial living cells: %d\n", pair.Baseline.Population())
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// updateLaneState records population and history for a lane and returns its status
func updateLaneState(l *lane, generation int, frameDuration time.Duration) (int, string) {
	livingCells := l.engine.Population()
	l.stats.Update(generation, livingCells, frameDuration)

	status := "Active"
	if l.isStagnant() {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}
	l.record()

	return livingCells, status
}

// displayLaneStatus shows one status line for a lane
func displayLaneStatus(l *lane, livingCells int, status string) {
	size := l.engine.Size()
	density := float64(livingCells) / float64(size*size) * 100
	fmt.Printf("%-8s Living: %4d | Density: %5.1f%% | Avg Pop: %6.1f ± %5.1f | Status: %s\n",
		l.name, livingCells, density, l.stats.AveragePopulation(), l.stats.PopulationStdDev(), status)
}

// displayGameStatus shows the shared status lines under both lanes
func displayGameStatus(generation int, pair *sim.Pair, stats *utils.Stats) {
	fmt.Printf("Gen: %d | Divergent cells: %d | Performance: %.1f gen/sec | Runtime: %.1fs\n",
		generation, pair.Divergence(), stats.GenerationsPerSecond, time.Since(stats.StartTime).Seconds())
	fmt.Println()
}

// checkStopConditions determines if the simulation should stop
func checkStopConditions(pair *sim.Pair, generation int, config utils.Config) (bool, string) {
	if config.AutoStop && pair.Extinct() {
		return true, "both grids are empty"
	}
	if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
		return true, fmt.Sprintf("reached maximum generations limit (%d)", config.MaxGenerations)
	}
	return false, ""
}
