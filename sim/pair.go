// Package sim runs a classic Life baseline next to a probabilistic variant from the same start.
package sim

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-probgol/engine"
	"github.com/sheikhrachel/go-probgol/rules"
)

// variantSeedOffset keeps the variant's random stream apart from the baseline's
const variantSeedOffset = 0x5851f42d4c957f2d

// Settings describes both lanes of a Pair
type Settings struct {
	Size          int
	Wraparound    bool
	Probabilities rules.Probabilities
	Seed          uint64
	Parallel      bool
}

// Pair owns the two lanes; lanes never share buffers or random sources
type Pair struct {
	Baseline *engine.Engine
	Variant  *engine.Engine
}

// NewPair builds a classic baseline and a variant using s.Probabilities, both empty
func NewPair(s Settings) (*Pair, error) {
	baseline, err := engine.New(s.Size, s.Wraparound, rules.Classic(),
		engine.WithSeed(s.Seed),
		engine.WithParallelCounting(s.Parallel),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[NewPair] failed to build baseline lane")
	}

	variant, err := engine.New(s.Size, s.Wraparound, s.Probabilities,
		engine.WithSeed(s.Seed+variantSeedOffset),
		engine.WithParallelCounting(s.Parallel),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[NewPair] failed to build variant lane")
	}

	return &Pair{Baseline: baseline, Variant: variant}, nil
}

// Reset randomizes the baseline and gives the variant the same board
func (p *Pair) Reset() error {
	p.Baseline.Randomize()
	return errors.Wrap(p.Variant.CopyFrom(p.Baseline), "[Reset] failed to mirror baseline")
}

// Toggle flips the same cell in both lanes
func (p *Pair) Toggle(row, col int) {
	p.Baseline.Toggle(row, col)
	p.Variant.Toggle(row, col)
}

// SetWraparound switches the boundary policy of both lanes
func (p *Pair) SetWraparound(enabled bool) {
	p.Baseline.SetWraparound(enabled)
	p.Variant.SetWraparound(enabled)
}

// SetProbability tunes the variant; the baseline stays classic
func (p *Pair) SetProbability(rule rules.Rule, value float64) error {
	return errors.Wrap(p.Variant.SetProbability(rule, value), "[SetProbability] variant lane")
}

// Step advances both lanes by one generation, concurrently
func (p *Pair) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "[Step] not started")
	}

	eg, _ := errgroup.WithContext(ctx)
	for _, lane := range []*engine.Engine{p.Baseline, p.Variant} {
		eg.Go(func() error {
			lane.Step()
			return nil
		})
	}
	return eg.Wait()
}

// Extinct reports whether both lanes are empty
func (p *Pair) Extinct() bool {
	return p.Baseline.IsEmpty() && p.Variant.IsEmpty()
}

// Divergence counts the cells whose state differs between the lanes
func (p *Pair) Divergence() int {
	base, variant := p.Baseline.Snapshot(), p.Variant.Snapshot()
	count := 0
	for row := range base {
		for col := range base[row] {
			if base[row][col] != variant[row][col] {
				count++
			}
		}
	}
	return count
}
