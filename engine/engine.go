package engine

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-probgol/model"
	"github.com/sheikhrachel/go-probgol/rules"
)

// randomizeDensity is the chance of a cell starting alive after Randomize
const randomizeDensity = 0.5

// Engine advances one lane of the probabilistic Game of Life.
//
// It owns two buffers of identical size: current, which is the only one ever
// read from outside, and next, which Step writes into before the two are
// swapped. All methods are safe for concurrent use; each call sees either the
// state before or after a Step, never a partial one.
type Engine struct {
	mu   sync.Mutex
	size int

	current *model.Grid
	next    *model.Grid
	counts  [][]uint8

	wraparound    bool
	probabilities rules.Probabilities
	src           rules.RandomSource
	parallel      bool
	generation    int
}

// Option configures an Engine at construction
type Option func(*Engine)

// WithRandomSource injects the source of uniform values used by Step and Randomize
func WithRandomSource(src rules.RandomSource) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithSeed uses a PCG generator seeded with seed
func WithSeed(seed uint64) Option {
	return WithRandomSource(NewSource(seed))
}

// WithParallelCounting counts neighbors across CPUs before applying the rules
func WithParallelCounting(enabled bool) Option {
	return func(e *Engine) {
		e.parallel = enabled
	}
}

// NewSource returns a seeded PCG generator
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New creates an all-dead engine with a size x size board
func New(size int, wraparound bool, probabilities rules.Probabilities, opts ...Option) (*Engine, error) {
	if size <= 0 {
		return nil, errors.Wrapf(configErr("size", size, "must be positive"), "[New] rejected size")
	}
	if rule := probabilities.Invalid(); rule != rules.None {
		return nil, errors.Wrapf(
			configErr(rule.String(), probabilities.Get(rule), "must be within [0,1]"),
			"[New] rejected probabilities",
		)
	}

	e := &Engine{
		size:          size,
		current:       model.NewGrid(size),
		next:          model.NewGrid(size),
		counts:        make([][]uint8, size),
		wraparound:    wraparound,
		probabilities: probabilities,
	}
	for i := range e.counts {
		e.counts[i] = make([]uint8, size)
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewSource(uint64(time.Now().UnixNano()))
	}
	return e, nil
}

// Step computes the next generation into the scratch buffer and swaps it in.
// Random draws happen in row-major order on the calling goroutine.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.size
	e.current.CountAllNeighbors(e.counts, model.BoundaryFor(e.wraparound), e.parallel)

	for row := range size {
		for col := range size {
			alive := rules.ApplyProbabilisticRules(
				int(e.counts[row][col]), e.current.Get(row, col), e.probabilities, e.src,
			)
			e.next.Set(row, col, alive)
		}
	}

	e.current, e.next = e.next, e.current
	e.generation++
}

// Randomize sets every cell alive with probability one half
func (e *Engine) Randomize() {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.size
	for row := range size {
		for col := range size {
			e.current.Set(row, col, e.src.Float64() < randomizeDensity)
		}
	}
	e.generation = 0
}

// Toggle flips one cell; coordinates off the board are ignored
func (e *Engine) Toggle(row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Toggle(row, col)
}

// SetCell sets one cell; coordinates off the board are ignored
func (e *Engine) SetCell(row, col int, alive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Set(row, col, alive)
}

// Clear kills every cell
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Clear()
	e.generation = 0
}

// LoadCells replaces the board with cells, which must be Size() x Size()
func (e *Engine) LoadCells(cells [][]bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.current.Load(cells) {
		return errors.Wrapf(
			configErr("cells", len(cells), "must match the board size"),
			"[LoadCells] board is %dx%d", e.size, e.size,
		)
	}
	e.generation = 0
	return nil
}

// CopyFrom replaces the board with the current board of other
func (e *Engine) CopyFrom(other *Engine) error {
	if other == e {
		return nil
	}
	snapshot := other.Snapshot()
	return errors.Wrap(e.LoadCells(snapshot), "[CopyFrom] failed to load board")
}

// IsEmpty reports whether every cell is dead
func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.IsEmpty()
}

// CellAt reports whether a cell is alive; coordinates off the board read as dead
func (e *Engine) CellAt(row, col int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.Get(row, col)
}

// CountLiveNeighbors counts the living neighbors of a cell under the current boundary policy
func (e *Engine) CountLiveNeighbors(row, col int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.CountNeighbors(row, col, model.BoundaryFor(e.wraparound))
}

// Size returns the side length of the board
func (e *Engine) Size() int {
	return e.size
}

// Population returns the number of living cells
func (e *Engine) Population() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.CountLivingCells()
}

// Generation returns how many steps ran since the board was last reset
func (e *Engine) Generation() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.generation
}

// Snapshot returns a copy of the current board
func (e *Engine) Snapshot() [][]bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.Snapshot()
}

// Hash returns a digest of the current board
func (e *Engine) Hash() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current.GetGridHash()
}

// Wraparound reports whether edges wrap
func (e *Engine) Wraparound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.wraparound
}

// SetWraparound switches the boundary policy from the next Step on
func (e *Engine) SetWraparound(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.wraparound = enabled
}

// Probabilities returns the rule probabilities
func (e *Engine) Probabilities() rules.Probabilities {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.probabilities
}

// SetProbability changes one rule's probability from the next Step on.
// On error the engine is left unchanged.
func (e *Engine) SetProbability(rule rules.Rule, value float64) error {
	if !rule.HasProbability() {
		return errors.Wrap(configErr("rule", rule, "has no probability"), "[SetProbability] rejected rule")
	}
	if !rules.InRange(value) {
		return errors.Wrapf(configErr(rule.String(), value, "must be within [0,1]"), "[SetProbability] rejected value")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.probabilities = e.probabilities.With(rule, value)
	return nil
}

// SetProbabilities replaces all rule probabilities at once
func (e *Engine) SetProbabilities(p rules.Probabilities) error {
	if rule := p.Invalid(); rule != rules.None {
		return errors.Wrapf(
			configErr(rule.String(), p.Get(rule), "must be within [0,1]"),
			"[SetProbabilities] rejected probabilities",
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.probabilities = p
	return nil
}
