package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCoordinate = errors.New("invalid cell coordinate")
	ErrEmptyPlayerName   = errors.New("player name is empty")
	ErrCorruptedState    = errors.New("corrupted game state")
)
