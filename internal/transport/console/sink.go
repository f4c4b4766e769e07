package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const titleBanner = `== tic-tac-toe ==
type new, ai or help
`

// Sink renders game notifications as text. Writes are serialised because the
// computer may move from a timer goroutine.
type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

func (that *Sink) OnBoardChanged(cells [entity.BoardSize]entity.Mark) {
	board := entity.Board(cells)
	that.Printf("\n%s", board.String())
}

func (that *Sink) OnTurnChanged(active entity.Player) {
	if active.IsComputer {
		that.Printf("%s (%s) is thinking...\n", active.Name, active.Mark)
		return
	}

	that.Printf("%s (%s) to move\n", active.Name, active.Mark)
}

func (that *Sink) OnGameEnded(message string) {
	that.Printf("*** %s ***\ntype restart or title\n", message)
}

func (that *Sink) Title() {
	that.Printf("%s", titleBanner)
}

func (that *Sink) Printf(format string, args ...any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, _ = fmt.Fprintf(that.out, format, args...)
}
