package utils

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats for performance and population monitoring of one lane
type Stats struct {
	GenerationsPerSecond float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int

	window      int
	populations []float64
}

// NewStats keeps the last window populations for the summaries
func NewStats(window int) *Stats {
	return &Stats{
		StartTime: time.Now(),
		window:    max(window, 1),
	}
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	s.populations = append(s.populations, float64(population))
	if len(s.populations) > s.window {
		s.populations = s.populations[len(s.populations)-s.window:]
	}
}

// AveragePopulation returns the mean population over the window
func (s *Stats) AveragePopulation() float64 {
	if len(s.populations) == 0 {
		return 0
	}
	return stat.Mean(s.populations, nil)
}

// PopulationStdDev returns the sample standard deviation of the population over the window
func (s *Stats) PopulationStdDev() float64 {
	if len(s.populations) < 2 {
		return 0
	}
	return stat.StdDev(s.populations, nil)
}
