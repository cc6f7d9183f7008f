package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "
	laneGap      = " │ "

	macosClearCmd = "clear"
)

// Board is the read-only view a renderer needs of a lane
type Board interface {
	Size() int
	CellAt(row, col int) bool
}

// TerminalRenderer implements basic terminal rendering of two lanes side by side
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// DisplayLanes renders left and right boards next to each other, row by row
func (r *TerminalRenderer) DisplayLanes(left, right Board) {
	w := bufio.NewWriter(r.out())
	rows := max(left.Size(), right.Size())
	for row := range rows {
		writeRow(w, left, row)
		fmt.Fprint(w, laneGap)
		writeRow(w, right, row)
		fmt.Fprintln(w)
	}
	w.Flush()
}

func writeRow(w io.Writer, b Board, row int) {
	for col := range b.Size() {
		if b.CellAt(row, col) {
			fmt.Fprint(w, gridPosBlock)
		} else {
			fmt.Fprint(w, gridPosEmpty)
		}
	}
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Println("Error clearing terminal:", err)
	}
}
