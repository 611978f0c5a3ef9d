// Package session holds a single hot-seat game owned by its caller.
// Reset starts a new round with the same players; nothing is shared between sessions.
package session

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type Session struct {
	id       string
	names    [2]string
	notifier tictactoe.RoundNotifier
	game     *tictactoe.GameController
	rounds   int
}

// New starts the first round. notifier may be nil.
func New(id, playerOne, playerTwo string, notifier tictactoe.RoundNotifier) (*Session, error) {
	that := &Session{
		id:       id,
		notifier: notifier,
	}

	if err := that.start(playerOne, playerTwo); err != nil {
		return nil, err
	}

	return that, nil
}

func (that *Session) start(playerOne, playerTwo string) error {
	var opts []tictactoe.Option
	if that.notifier != nil {
		opts = append(opts, tictactoe.WithNotifier(that.notifier))
	}

	game, err := tictactoe.NewGameController(playerOne, playerTwo, opts...)
	if err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}

	players := game.Players()
	that.names = [2]string{players[0].Name, players[1].Name}
	that.game = game
	that.rounds++

	return nil
}

// Play makes a move for the active player and returns the state to redraw.
func (that *Session) Play(pos entity.Position) (entity.GameState, error) {
	err := that.game.PlayRound(pos)

	return that.State(), err
}

// Reset throws the current board away and starts a new round.
func (that *Session) Reset() (entity.GameState, error) {
	if err := that.start(that.names[0], that.names[1]); err != nil {
		return that.State(), err
	}

	return that.State(), nil
}

func (that *Session) State() entity.GameState {
	return that.game.State(that.id)
}

func (that *Session) Game() *tictactoe.GameController {
	return that.game
}

func (that *Session) Rounds() int {
	return that.rounds
}
