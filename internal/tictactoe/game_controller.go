package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// WinningLines are checked in this order: rows top to bottom, columns left to right, then both diagonals.
var WinningLines = [8][3]entity.Position{
	{{Row: 0, Column: 0}, {Row: 0, Column: 1}, {Row: 0, Column: 2}},
	{{Row: 1, Column: 0}, {Row: 1, Column: 1}, {Row: 1, Column: 2}},
	{{Row: 2, Column: 0}, {Row: 2, Column: 1}, {Row: 2, Column: 2}},
	{{Row: 0, Column: 0}, {Row: 1, Column: 0}, {Row: 2, Column: 0}},
	{{Row: 0, Column: 1}, {Row: 1, Column: 1}, {Row: 2, Column: 1}},
	{{Row: 0, Column: 2}, {Row: 1, Column: 2}, {Row: 2, Column: 2}},
	{{Row: 0, Column: 0}, {Row: 1, Column: 1}, {Row: 2, Column: 2}},
	{{Row: 0, Column: 2}, {Row: 1, Column: 1}, {Row: 2, Column: 0}},
}

// RoundNotifier is told about every state change a renderer has to redraw.
type RoundNotifier interface {
	NewRound(board *entity.Board, next entity.Player)
	GameOver(board *entity.Board, winner string, won bool)
}

type Option func(*GameController)

func WithNotifier(notifier RoundNotifier) Option {
	return func(that *GameController) {
		that.notifier = notifier
	}
}

// GameController runs a single game. It exclusively owns its board.
type GameController struct {
	board   *entity.Board
	players [2]entity.Player
	active  int
	status  entity.Status
	winner  string
	line    []entity.Position
	moves   int

	notifier RoundNotifier
}

func NewGameController(playerOneName, playerTwoName string, opts ...Option) (*GameController, error) {
	players, err := newPlayers(playerOneName, playerTwoName)
	if err != nil {
		return nil, err
	}

	that := &GameController{
		board:   entity.NewBoard(),
		players: players,
		status:  entity.StatusInProgress,
	}

	for _, opt := range opts {
		opt(that)
	}

	if that.notifier != nil {
		that.notifier.NewRound(that.board, that.ActivePlayer())
	}

	return that, nil
}

func newPlayers(playerOneName, playerTwoName string) ([2]entity.Player, error) {
	playerOneName = strings.TrimSpace(playerOneName)
	playerTwoName = strings.TrimSpace(playerTwoName)

	if playerOneName == "" || playerTwoName == "" {
		return [2]entity.Player{}, apperror.ErrEmptyPlayerName
	}

	return [2]entity.Player{
		{Name: playerOneName, Mark: entity.MarkX},
		{Name: playerTwoName, Mark: entity.MarkO},
	}, nil
}

// PlayRound puts the active player's mark on pos and advances the game.
// A rejected move returns an error and leaves the game untouched.
func (that *GameController) PlayRound(pos entity.Position) error {
	if that.GameOver() {
		return apperror.ErrGameFinished
	}

	player := that.ActivePlayer()

	if err := that.board.FillCell(pos, player.Mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.moves++

	if line, ok := findWinningLine(that.board); ok {
		that.status = entity.StatusWon
		that.winner = player.Name
		that.line = line
		that.notifyGameOver()

		return nil
	}

	if that.board.IsFull() {
		that.status = entity.StatusDraw
		that.notifyGameOver()

		return nil
	}

	that.switchPlayer()

	if that.notifier != nil {
		that.notifier.NewRound(that.board, that.ActivePlayer())
	}

	return nil
}

func (that *GameController) switchPlayer() {
	that.active = 1 - that.active
}

func (that *GameController) notifyGameOver() {
	if that.notifier != nil {
		that.notifier.GameOver(that.board, that.winner, that.status == entity.StatusWon)
	}
}

// findWinningLine returns the first line holding three equal non-empty marks.
func findWinningLine(board *entity.Board) ([]entity.Position, bool) {
	grid := board.Grid()

	for _, line := range WinningLines {
		a := grid[line[0].Row][line[0].Column].Value()
		b := grid[line[1].Row][line[1].Column].Value()
		c := grid[line[2].Row][line[2].Column].Value()

		if !a.IsEmpty() && a == b && b == c {
			return line[:], true
		}
	}

	return nil, false
}

func (that *GameController) ActivePlayer() entity.Player {
	return that.players[that.active]
}

func (that *GameController) Players() [2]entity.Player {
	return that.players
}

func (that *GameController) Board() *entity.Board {
	return that.board
}

func (that *GameController) GameOver() bool {
	return that.status.IsTerminal()
}

func (that *GameController) Status() entity.Status {
	return that.status
}

// Winner returns the winner's name. It is unset while the game runs and on a draw.
func (that *GameController) Winner() (string, bool) {
	return that.winner, that.status == entity.StatusWon
}

func (that *GameController) WinningLine() []entity.Position {
	return append([]entity.Position(nil), that.line...)
}

func (that *GameController) Moves() int {
	return that.moves
}

// State returns a snapshot of the game under the given id.
func (that *GameController) State(id string) entity.GameState {
	return entity.GameState{
		ID:           id,
		Board:        that.board.Marks(),
		Players:      that.players,
		ActivePlayer: that.ActivePlayer(),
		Status:       that.status,
		GameOver:     that.GameOver(),
		Winner:       that.winner,
		WinningLine:  that.WinningLine(),
		Moves:        that.moves,
	}
}
