package entity

const (
	StatusInProgress = "in_progress"
	StatusWin        = "win"
	StatusTie        = "tie"
)

const tieMessage = "It's a tie!"

type Outcome struct {
	Status string  `json:"status"`
	Winner *Player `json:"winner,omitempty"`
}

// Message is the human readable result shown to players.
func (that Outcome) Message() string {
	switch that.Status {
	case StatusWin:
		return that.Winner.Name + " wins!"
	case StatusTie:
		return tieMessage
	default:
		return ""
	}
}

// GameSession is one game from start to outcome. It belongs to a single engine.
type GameSession struct {
	ID         string     `json:"id"`
	Generation uint64     `json:"generation"`
	Board      Board      `json:"board"`
	Players    [2]*Player `json:"players"`
	Current    *Player    `json:"current,omitempty"`
	Outcome    Outcome    `json:"outcome"`
}

func NewGameSession(id string, generation uint64, first, second *Player) *GameSession {
	session := &GameSession{
		ID:         id,
		Generation: generation,
		Players:    [2]*Player{first, second},
		Current:    first,
		Outcome:    Outcome{Status: StatusInProgress},
	}
	session.Board.Reset()

	return session
}

func (that *GameSession) IsFinished() bool {
	return that.Outcome.Status != StatusInProgress
}

func (that *GameSession) IsInProgress() bool {
	return that.Outcome.Status == StatusInProgress
}

func (that *GameSession) FirstPlayer() *Player {
	return that.Players[0]
}

// SwitchPlayer hands the turn to the other player.
func (that *GameSession) SwitchPlayer() {
	if that.Current == that.Players[0] {
		that.Current = that.Players[1]
		return
	}
	that.Current = that.Players[0]
}

// ComputerPlayer returns the computer-controlled player, if any.
func (that *GameSession) ComputerPlayer() *Player {
	for _, player := range that.Players {
		if player.IsComputer {
			return player
		}
	}

	return nil
}

// DetermineOutcome evaluates the board after mover placed a mark. A win is
// always checked before a tie.
func (that *GameSession) DetermineOutcome(mover *Player) Outcome {
	if that.Board.HasWin(mover.Mark) {
		return Outcome{Status: StatusWin, Winner: mover}
	}

	if that.Board.IsFull() {
		return Outcome{Status: StatusTie}
	}

	return Outcome{Status: StatusInProgress}
}
