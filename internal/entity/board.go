package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

// Mark is the content of a board cell: empty or the symbol of a player.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// WinCombos holds the index triples that win the game: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == X || that == O
}

// Board is the 3x3 grid stored row-major.
type Board [BoardSize]Mark

// Cells returns a copy of the cells.
func (that *Board) Cells() [BoardSize]Mark {
	return *that
}

// Reset empties every cell.
func (that *Board) Reset() {
	for i := range that {
		that[i] = Empty
	}
}

// Claim puts mark on the cell at index. It reports false without touching the
// board when the cell is already taken.
func (that *Board) Claim(index int, mark Mark) (bool, error) {
	if index < 0 || index >= BoardSize {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	if !mark.IsPlayer() {
		return false, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if that[index] != Empty {
		return false, nil
	}

	that[index] = mark

	return true, nil
}

// HasWin reports whether mark fills any of the win combos.
func (that *Board) HasWin(mark Mark) bool {
	if mark == Empty {
		return false
	}

	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}

	return false
}

// IsFull reports whether no empty cell is left.
func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// EmptyCells returns the indexes of empty cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) String() string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := 0; col < 3; col++ {
			idx := row*3 + col
			symbol := string(that[idx])
			if symbol == "" {
				symbol = fmt.Sprint(idx)
			}

			sb.WriteString(" " + symbol + " ")
			if col < 2 {
				sb.WriteString("|")
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
