package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// Restore rebuilds a controller from a persisted snapshot.
// The status, winner and active player are derived from the board and must agree with the snapshot.
func Restore(state entity.GameState, opts ...Option) (*GameController, error) {
	players, err := newPlayers(state.Players[0].Name, state.Players[1].Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedState, err)
	}

	that := &GameController{
		board:   entity.NewBoard(),
		players: players,
		status:  entity.StatusInProgress,
	}

	for index, mark := range state.Board {
		if !mark.Valid() {
			return nil, fmt.Errorf("%w: unknown mark %q", apperror.ErrCorruptedState, mark)
		}

		if mark.IsEmpty() {
			continue
		}

		pos, err := entity.PositionFromIndex(index)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedState, err)
		}

		that.board.Grid()[pos.Row][pos.Column].Put(mark)
	}

	crosses, circles := that.board.Count(entity.MarkX), that.board.Count(entity.MarkO)
	if crosses != circles && crosses != circles+1 {
		return nil, fmt.Errorf("%w: %d X against %d O", apperror.ErrCorruptedState, crosses, circles)
	}

	that.moves = crosses + circles
	lastMover := 0
	if crosses == circles {
		lastMover = 1
	}

	switch line, won := findWinningLine(that.board); {
	case won:
		mark := that.board.Grid()[line[0].Row][line[0].Column].Value()
		if mark != players[lastMover].Mark {
			return nil, fmt.Errorf("%w: %s won out of turn", apperror.ErrCorruptedState, mark)
		}

		if hasLine(that.board, mark.Opponent()) {
			return nil, fmt.Errorf("%w: both X and O own a line", apperror.ErrCorruptedState)
		}

		that.status = entity.StatusWon
		that.active = lastMover
		that.winner = players[lastMover].Name
		that.line = line
	case that.board.IsFull():
		that.status = entity.StatusDraw
		that.active = lastMover
	default:
		that.active = 1 - lastMover
	}

	if err = that.verify(state); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(that)
	}

	return that, nil
}

func hasLine(board *entity.Board, mark entity.Mark) bool {
	grid := board.Grid()

	for _, line := range WinningLines {
		if grid[line[0].Row][line[0].Column].Value() == mark &&
			grid[line[1].Row][line[1].Column].Value() == mark &&
			grid[line[2].Row][line[2].Column].Value() == mark {
			return true
		}
	}

	return false
}

func (that *GameController) verify(state entity.GameState) error {
	switch {
	case state.Players != that.players:
		return fmt.Errorf("%w: players mismatch", apperror.ErrCorruptedState)
	case state.Status != that.status:
		return fmt.Errorf("%w: status %q, board says %q", apperror.ErrCorruptedState, state.Status, that.status)
	case state.Winner != that.winner:
		return fmt.Errorf("%w: winner %q, board says %q", apperror.ErrCorruptedState, state.Winner, that.winner)
	case state.ActivePlayer != that.ActivePlayer():
		return fmt.Errorf("%w: active player mismatch", apperror.ErrCorruptedState)
	case state.Moves != that.moves:
		return fmt.Errorf("%w: %d moves recorded, %d on board", apperror.ErrCorruptedState, state.Moves, that.moves)
	}

	return nil
}
