package entity

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

func (that Status) IsTerminal() bool {
	return that == StatusWon || that == StatusDraw
}

// GameState is everything a renderer needs to redraw a game. It is also the persisted form.
type GameState struct {
	ID           string           `json:"id"`
	Board        [CellsCount]Mark `json:"board"`
	Players      [2]Player        `json:"players"`
	ActivePlayer Player           `json:"active_player"`
	Status       Status           `json:"status"`
	GameOver     bool             `json:"game_over"`
	Winner       string           `json:"winner,omitempty"`
	WinningLine  []Position       `json:"winning_line,omitempty"`
	Moves        int              `json:"moves"`
}

func (that *GameState) IsFinished() bool {
	return that.Status.IsTerminal()
}

func (that *GameState) IsOngoing() bool {
	return that.Status == StatusInProgress
}
