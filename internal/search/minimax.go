package search

import (
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	WinScore  = 10
	LossScore = -10
	TieScore  = 0

	// NoMove is the index returned for a board that is already decided.
	NoMove = -1
)

type Result struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// Minimax searches the full game tree for the computer player. Scores are
// always from the computer's side: the human and computer marks are fixed
// for the whole tree, which only holds for a two-player game with fixed marks.
type Minimax struct {
	human    entity.Mark
	computer entity.Mark

	nodes int
}

func New(human, computer entity.Mark) *Minimax {
	return &Minimax{
		human:    human,
		computer: computer,
	}
}

// BestMove returns the optimal cell for moving on a copy of board. Ties between
// equal scores go to the lowest index. Faster wins are not preferred.
func (that *Minimax) BestMove(board entity.Board, moving entity.Mark) Result {
	that.nodes = 0

	return that.minimax(&board, moving)
}

// Nodes is the number of positions visited by the last BestMove call.
func (that *Minimax) Nodes() int {
	return that.nodes
}

func (that *Minimax) minimax(board *entity.Board, moving entity.Mark) Result {
	that.nodes++

	switch {
	case board.HasWin(that.human):
		return Result{Index: NoMove, Score: LossScore}
	case board.HasWin(that.computer):
		return Result{Index: NoMove, Score: WinScore}
	case board.IsFull():
		return Result{Index: NoMove, Score: TieScore}
	}

	maximizing := moving == that.computer
	next := that.computer
	if maximizing {
		next = that.human
	}

	best := Result{Index: NoMove}
	for _, idx := range board.EmptyCells() {
		board[idx] = moving
		score := that.minimax(board, next).Score
		board[idx] = entity.Empty

		if best.Index == NoMove || (maximizing && score > best.Score) || (!maximizing && score < best.Score) {
			best = Result{Index: idx, Score: score}
		}
	}

	return best
}
