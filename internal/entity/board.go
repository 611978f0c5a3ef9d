package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

// Board owns a fixed 3x3 grid of cells.
type Board struct {
	grid [Size][Size]Cell
}

func NewBoard() *Board {
	return &Board{}
}

// Grid returns a live view of the cells.
func (that *Board) Grid() *[Size][Size]Cell {
	return &that.grid
}

func (that *Board) Cell(pos Position) (*Cell, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidCoordinate, pos)
	}

	return &that.grid[pos.Row][pos.Column], nil
}

// FillCell writes mark into an empty cell.
func (that *Board) FillCell(pos Position, mark Mark) error {
	cell, err := that.Cell(pos)
	if err != nil {
		return err
	}

	if !cell.Value().IsEmpty() {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, pos)
	}

	cell.Put(mark)

	return nil
}

// Marks returns a row-major snapshot of the board.
func (that *Board) Marks() [CellsCount]Mark {
	var marks [CellsCount]Mark

	for row := range that.grid {
		for column := range that.grid[row] {
			marks[row*Size+column] = that.grid[row][column].Value()
		}
	}

	return marks
}

func (that *Board) IsFull() bool {
	for row := range that.grid {
		for column := range that.grid[row] {
			if that.grid[row][column].Value().IsEmpty() {
				return false
			}
		}
	}

	return true
}

// Count returns how many cells hold mark.
func (that *Board) Count(mark Mark) int {
	count := 0
	for _, value := range that.Marks() {
		if value == mark {
			count++
		}
	}

	return count
}
