package entity

type Player struct {
	Name       string `json:"name"`
	Mark       Mark   `json:"mark"`
	IsComputer bool   `json:"is_computer,omitempty"`
}

func NewHumanPlayer(name string, mark Mark) *Player {
	return &Player{
		Name: name,
		Mark: mark,
	}
}

func NewComputerPlayer(name string, mark Mark) *Player {
	return &Player{
		Name:       name,
		Mark:       mark,
		IsComputer: true,
	}
}
