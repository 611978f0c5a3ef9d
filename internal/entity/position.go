package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

const (
	Size       = 3
	CellsCount = Size * Size
)

// Position addresses a cell by row and column, both in [0, Size).
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (that Position) Valid() bool {
	return that.Row >= 0 && that.Row < Size && that.Column >= 0 && that.Column < Size
}

// Index returns the row-major index of the position.
func (that Position) Index() int {
	return that.Row*Size + that.Column
}

func (that Position) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Column)
}

func PositionFromIndex(index int) (Position, error) {
	if index < 0 || index >= CellsCount {
		return Position{}, fmt.Errorf("%w: index %d", apperror.ErrInvalidCoordinate, index)
	}

	return Position{Row: index / Size, Column: index % Size}, nil
}
