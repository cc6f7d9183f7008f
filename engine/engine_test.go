package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-probgol/model"
	"github.com/sheikhrachel/go-probgol/rules"
)

// countingSource returns a fixed value and counts draws
type countingSource struct {
	value float64
	draws int
}

func (s *countingSource) Float64() float64 {
	s.draws++
	return s.value
}

func newEngine(t *testing.T, size int, wraparound bool, p rules.Probabilities, opts ...Option) *Engine {
	t.Helper()
	e, err := New(size, wraparound, p, opts...)
	require.NoError(t, err)
	return e
}

// classicNext computes one deterministic Life generation independently of Engine
func classicNext(cells [][]bool, wraparound bool) [][]bool {
	g := model.NewGrid(len(cells))
	g.Load(cells)
	out := g.Snapshot()
	for row := range cells {
		for col := range cells[row] {
			n := g.CountNeighbors(row, col, model.BoundaryFor(wraparound))
			out[row][col] = rules.ApplyConwayRules(n, cells[row][col])
		}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive size", func(t *testing.T) {
		t.Parallel()
		for _, size := range []int{0, -3} {
			e, err := New(size, true, rules.Classic())
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "size", cfgErr.Field)
		}
	})

	t.Run("rejects probabilities outside the unit interval", func(t *testing.T) {
		t.Parallel()
		for _, p := range []rules.Probabilities{
			rules.Classic().With(rules.Survival, 1.01),
			rules.Classic().With(rules.Underpopulation, -0.5),
			rules.Classic().With(rules.Reproduction, math.NaN()),
		} {
			_, err := New(4, false, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		}
	})

	t.Run("starts empty with the requested configuration", func(t *testing.T) {
		t.Parallel()
		p := rules.Uniform(0.4)
		e := newEngine(t, 5, true, p)
		assert.Equal(t, 5, e.Size())
		assert.True(t, e.IsEmpty())
		assert.True(t, e.Wraparound())
		assert.Equal(t, p, e.Probabilities())
		assert.Equal(t, 0, e.Generation())
	})
}

func TestStepClassicRules(t *testing.T) {
	t.Parallel()

	for _, wraparound := range []bool{false, true} {
		for _, value := range []float64{0, 0.5, 0.9999999} {
			e := newEngine(t, 9, wraparound, rules.Classic(),
				WithRandomSource(&countingSource{value: value}))
			seeded := newEngine(t, 9, wraparound, rules.Classic(), WithSeed(7))
			seeded.Randomize()
			require.NoError(t, e.CopyFrom(seeded))

			for range 4 {
				want := classicNext(e.Snapshot(), wraparound)
				e.Step()
				require.Empty(t, cmp.Diff(want, e.Snapshot()), "wraparound=%v draw=%v", wraparound, value)
			}
		}
	}
}

func TestStepZeroProbability(t *testing.T) {
	t.Parallel()

	for _, wraparound := range []bool{false, true} {
		t.Run("only survival changes cells", func(t *testing.T) {
			t.Parallel()
			e := newEngine(t, 10, wraparound, rules.Uniform(0), WithSeed(3))
			e.Randomize()
			before := e.Snapshot()

			want := e.Snapshot()
			for row := range want {
				for col := range want[row] {
					n := e.CountLiveNeighbors(row, col)
					if before[row][col] && (n == 2 || n == 3) {
						want[row][col] = false
					}
				}
			}

			e.Step()
			assert.Empty(t, cmp.Diff(want, e.Snapshot()), "wraparound=%v", wraparound)
			assert.Equal(t, 1, e.Generation())
		})

		t.Run("carries every cell forward with survival at one", func(t *testing.T) {
			t.Parallel()
			e := newEngine(t, 10, wraparound, rules.Uniform(0).With(rules.Survival, 1), WithSeed(3))
			e.Randomize()
			before := e.Snapshot()

			e.Step()
			e.Step()
			assert.Empty(t, cmp.Diff(before, e.Snapshot()), "wraparound=%v", wraparound)
			assert.Equal(t, 2, e.Generation())
		})
	}
}

func TestStepAllAliveDiesOfOverpopulation(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 4, true, rules.Classic(), WithSeed(1))
	for row := range 4 {
		for col := range 4 {
			e.SetCell(row, col, true)
		}
	}
	for row := range 4 {
		for col := range 4 {
			assert.Equal(t, 8, e.CountLiveNeighbors(row, col), "(%d,%d)", row, col)
		}
	}

	e.Step()
	assert.True(t, e.IsEmpty())
}

func TestStepBlinkerPeriod(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 8, true, rules.Classic(), WithSeed(11))
	e.SetCell(3, 2, true)
	e.SetCell(3, 3, true)
	e.SetCell(3, 4, true)
	start := e.Snapshot()

	e.Step()
	vertical := e.Snapshot()
	assert.NotEmpty(t, cmp.Diff(start, vertical))
	assert.True(t, vertical[2][3])
	assert.True(t, vertical[3][3])
	assert.True(t, vertical[4][3])
	assert.Equal(t, 3, e.Population())

	e.Step()
	assert.Empty(t, cmp.Diff(start, e.Snapshot()))

	e.Step()
	assert.Empty(t, cmp.Diff(vertical, e.Snapshot()))
}

func TestStepBoundaryPolicy(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 3, true, rules.Classic())
	e.SetCell(0, 0, true)

	// every other cell touches the corner through the wrap
	assert.Equal(t, 1, e.CountLiveNeighbors(2, 2))
	assert.Equal(t, 1, e.CountLiveNeighbors(0, 2))

	e.SetWraparound(false)
	assert.Equal(t, 0, e.CountLiveNeighbors(2, 2))
	assert.Equal(t, 1, e.CountLiveNeighbors(1, 1))

	e.Clear()
	for row := range 3 {
		for col := range 3 {
			e.SetCell(row, col, true)
		}
	}
	assert.Equal(t, 3, e.CountLiveNeighbors(0, 0))
	e.SetWraparound(true)
	assert.Equal(t, 8, e.CountLiveNeighbors(0, 0))
}

func TestStepRandomDraws(t *testing.T) {
	t.Parallel()

	// dead cells draw only when they have exactly three neighbors
	e := newEngine(t, 6, false, rules.Classic(), WithRandomSource(&countingSource{value: 0.5}))
	src := e.src.(*countingSource)

	e.Step()
	assert.Equal(t, 0, src.draws, "empty board draws nothing")

	e.SetCell(0, 0, true)
	e.Step()
	assert.Equal(t, 1, src.draws, "one live cell draws once")

	e.Clear()
	src.draws = 0
	e.SetCell(2, 1, true)
	e.SetCell(2, 2, true)
	e.SetCell(2, 3, true)
	e.Step()
	// three live cells plus the two dead cells above and below the centre
	assert.Equal(t, 5, src.draws)
}

func TestStepProbabilisticOutcome(t *testing.T) {
	t.Parallel()

	// with a draw of 0.5 only rules at or above 0.5 fire
	e := newEngine(t, 6, false, rules.Probabilities{
		Underpopulation: 0.4,
		Survival:        0.6,
		Overpopulation:  0.5,
		Reproduction:    0.3,
	}, WithRandomSource(&countingSource{value: 0.5}))

	e.SetCell(0, 5, true) // lonely: underpopulation fails, survives
	e.SetCell(2, 1, true) // blinker: ends survive underpopulation, centre survives
	e.SetCell(2, 2, true)
	e.SetCell(2, 3, true)

	e.Step()
	assert.True(t, e.CellAt(0, 5))
	assert.True(t, e.CellAt(2, 1))
	assert.True(t, e.CellAt(2, 2))
	assert.True(t, e.CellAt(2, 3))
	assert.False(t, e.CellAt(1, 2), "reproduction at 0.3 does not fire")
	assert.False(t, e.CellAt(3, 2))
	assert.Equal(t, 4, e.Population())

	require.NoError(t, e.SetProbability(rules.Reproduction, 0.5))
	e.Step()
	assert.True(t, e.CellAt(1, 2))
	assert.True(t, e.CellAt(3, 2))
}

func TestStepReproducible(t *testing.T) {
	t.Parallel()

	p := rules.Probabilities{Underpopulation: 0.7, Survival: 0.9, Overpopulation: 0.8, Reproduction: 0.6}
	serial := newEngine(t, 24, true, p, WithSeed(42))
	parallel := newEngine(t, 24, true, p, WithSeed(42), WithParallelCounting(true))
	serial.Randomize()
	parallel.Randomize()
	require.Equal(t, serial.Hash(), parallel.Hash())

	for range 10 {
		serial.Step()
		parallel.Step()
		require.Equal(t, serial.Hash(), parallel.Hash())
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 4, true, rules.Classic())
	assert.True(t, e.IsEmpty())

	e.Toggle(1, 3)
	assert.True(t, e.CellAt(1, 3))
	assert.False(t, e.IsEmpty())

	e.Toggle(1, 3)
	assert.False(t, e.CellAt(1, 3))
	assert.True(t, e.IsEmpty())

	e.Toggle(2, 2)
	before := e.Hash()
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		e.Toggle(pos[0], pos[1])
		assert.False(t, e.CellAt(pos[0], pos[1]))
	}
	assert.Equal(t, before, e.Hash())
}

func TestIsEmptyAnySize(t *testing.T) {
	t.Parallel()

	for size := 1; size <= 6; size++ {
		e := newEngine(t, size, false, rules.Classic())
		assert.True(t, e.IsEmpty())
		e.Toggle(size-1, size-1)
		assert.False(t, e.IsEmpty())
	}
}

func TestRandomize(t *testing.T) {
	t.Parallel()

	t.Run("below one half is alive", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, 3, true, rules.Classic(), WithRandomSource(&countingSource{value: 0.49}))
		e.Randomize()
		assert.Equal(t, 9, e.Population())
		assert.Equal(t, 9, e.src.(*countingSource).draws)
	})

	t.Run("one half and above is dead", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, 3, true, rules.Classic(), WithRandomSource(&countingSource{value: 0.5}))
		e.Toggle(0, 0)
		e.Randomize()
		assert.True(t, e.IsEmpty())
	})

	t.Run("seeded boards are repeatable and mixed", func(t *testing.T) {
		t.Parallel()
		a := newEngine(t, 32, true, rules.Classic(), WithSeed(5))
		b := newEngine(t, 32, true, rules.Classic(), WithSeed(5))
		a.Randomize()
		b.Randomize()
		assert.Equal(t, a.Hash(), b.Hash())

		pop := a.Population()
		assert.Greater(t, pop, 32*32/4)
		assert.Less(t, pop, 32*32*3/4)
	})
}

func TestSetProbability(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 4, true, rules.Classic())

	require.NoError(t, e.SetProbability(rules.Survival, 0.25))
	assert.Equal(t, 0.25, e.Probabilities().Survival)

	for _, value := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		err := e.SetProbability(rules.Overpopulation, value)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	}

	err := e.SetProbability(rules.None, 0.5)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "rule", cfgErr.Field)

	assert.Equal(t, rules.Classic().With(rules.Survival, 0.25), e.Probabilities())

	require.Error(t, e.SetProbabilities(rules.Uniform(2)))
	require.NoError(t, e.SetProbabilities(rules.Uniform(0.5)))
	assert.Equal(t, rules.Uniform(0.5), e.Probabilities())
}

func TestLoadAndCopy(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 3, false, rules.Classic())
	cells := [][]bool{
		{true, false, false},
		{false, true, false},
		{false, false, true},
	}
	require.NoError(t, e.LoadCells(cells))
	assert.Empty(t, cmp.Diff(cells, e.Snapshot()))

	err := e.LoadCells([][]bool{{true}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Empty(t, cmp.Diff(cells, e.Snapshot()), "failed load leaves the board alone")

	other := newEngine(t, 3, true, rules.Uniform(0))
	require.NoError(t, other.CopyFrom(e))
	assert.Equal(t, e.Hash(), other.Hash())
	require.NoError(t, other.CopyFrom(other))

	small := newEngine(t, 2, true, rules.Classic())
	assert.Error(t, small.CopyFrom(e))
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 16, true, rules.Uniform(0.8), WithSeed(9), WithParallelCounting(true))
	e.Randomize()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 20 {
				switch (i + j) % 4 {
				case 0:
					e.Step()
				case 1:
					e.Toggle(j%16, i)
				case 2:
					_ = e.IsEmpty()
				default:
					_ = e.CellAt(i, j%16)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, e.Size())
}
