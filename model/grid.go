package model

import (
	"crypto/md5"
	"fmt"
	"runtime"
	"sync"
)

// Boundary selects how neighbors past the edge of the grid are treated
type Boundary int

const (
	// Bounded skips neighbors outside the grid, so corners see 3 neighbors
	Bounded Boundary = iota
	// Toroidal wraps each axis to the opposite edge, so every cell sees 8 neighbors
	Toroidal
)

// BoundaryFor maps a wraparound flag to its Boundary
func BoundaryFor(wraparound bool) Boundary {
	if wraparound {
		return Toroidal
	}
	return Bounded
}

func (b Boundary) String() string {
	if b == Toroidal {
		return "toroidal"
	}
	return "bounded"
}

// Grid represents a square board of alive/dead cells, addressed as (row, col)
type Grid struct {
	size  int
	cells [][]bool
}

// NewGrid creates an all-dead grid of size x size cells. Callers validate size.
func NewGrid(size int) *Grid {
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
	}
	return &Grid{
		size:  size,
		cells: cells,
	}
}

// GetSize returns the side length of the grid
func (g *Grid) GetSize() int {
	return g.size
}

// InBounds reports whether (row, col) lies on the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Clear kills all cells
func (g *Grid) Clear() {
	for row := range g.size {
		for col := range g.size {
			g.cells[row][col] = false
		}
	}
}

// Set sets a cell to alive (true) or dead (false); out of bounds is ignored
func (g *Grid) Set(row, col int, alive bool) {
	if g.InBounds(row, col) {
		g.cells[row][col] = alive
	}
}

// Get returns the state of a cell; out of bounds reads as dead
func (g *Grid) Get(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.cells[row][col]
}

// Toggle flips a cell and reports whether anything changed
func (g *Grid) Toggle(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row][col] = !g.cells[row][col]
	return true
}

// CountNeighbors counts the living cells in the Moore neighborhood of (row, col)
func (g *Grid) CountNeighbors(row, col int, boundary Boundary) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue // Skip the cell itself
			}
			nr, nc := row+dr, col+dc
			if boundary == Toroidal {
				nr = (nr + g.size) % g.size
				nc = (nc + g.size) % g.size
			} else if !g.InBounds(nr, nc) {
				continue
			}
			if g.cells[nr][nc] {
				count++
			}
		}
	}
	return count
}

// CountAllNeighbors fills counts[row][col] with the neighbor count of every cell.
// When parallel is set, row bands are counted concurrently; the grid is only read.
func (g *Grid) CountAllNeighbors(counts [][]uint8, boundary Boundary, parallel bool) {
	countRows := func(startRow, endRow int) {
		for row := startRow; row < endRow; row++ {
			for col := range g.size {
				counts[row][col] = uint8(g.CountNeighbors(row, col, boundary))
			}
		}
	}

	if !parallel {
		countRows(0, g.size)
		return
	}

	var (
		wg            sync.WaitGroup
		numWorkers    = runtime.NumCPU()
		rowsPerWorker = (g.size + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.size)
		)
		if startRow >= g.size {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			countRows(startRow, endRow)
		}()
	}
	wg.Wait()
}

// IsEmpty reports whether every cell is dead
func (g *Grid) IsEmpty() bool {
	for row := range g.size {
		for col := range g.size {
			if g.cells[row][col] {
				return false
			}
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for row := range g.size {
		for col := range g.size {
			if g.cells[row][col] {
				count++
			}
		}
	}
	return
}

// Load overwrites g with cells; rows and columns must match the grid size
func (g *Grid) Load(cells [][]bool) bool {
	if len(cells) != g.size {
		return false
	}
	for _, row := range cells {
		if len(row) != g.size {
			return false
		}
	}
	for row := range g.size {
		copy(g.cells[row], cells[row])
	}
	return true
}

// Snapshot returns a deep copy of the cells
func (g *Grid) Snapshot() [][]bool {
	out := make([][]bool, g.size)
	for row := range g.size {
		out[row] = append([]bool(nil), g.cells[row]...)
	}
	return out
}

// GetGridHash returns an MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	for row := range g.size {
		for col := range g.size {
			if g.cells[row][col] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
