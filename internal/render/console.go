package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const rowSeparator = "---+---+---"

// Console draws games to a terminal. It implements tictactoe.RoundNotifier.
type Console struct {
	out *termenv.Output
}

// NewConsole detects the colour profile of w unless an option overrides it.
func NewConsole(w io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{
		out: termenv.NewOutput(w, opts...),
	}
}

func (that *Console) PrintBoard(board *entity.Board) {
	var sb strings.Builder

	for row, cells := range board.Grid() {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		marks := make([]string, 0, entity.Size)
		for column := range cells {
			marks = append(marks, that.mark(cells[column].Value()))
		}

		sb.WriteString(" " + strings.Join(marks, " | ") + "\n")
	}

	that.write(sb.String())
}

func (that *Console) mark(mark entity.Mark) string {
	switch mark {
	case entity.MarkX:
		return that.out.String(string(mark)).Foreground(termenv.ANSIRed).Bold().String()
	case entity.MarkO:
		return that.out.String(string(mark)).Foreground(termenv.ANSIBlue).Bold().String()
	default:
		return " "
	}
}

func (that *Console) NewRound(board *entity.Board, next entity.Player) {
	that.PrintBoard(board)
	that.write(fmt.Sprintf("\n%s's turn.\n", next.Name))
}

func (that *Console) GameOver(board *entity.Board, winner string, won bool) {
	that.PrintBoard(board)

	if won {
		that.write(fmt.Sprintf("\n%s WINS!\n", winner))
		return
	}

	that.write("\nIt's a DRAW!\n")
}

// Rejected prints why a move did not happen.
func (that *Console) Rejected(err error) {
	that.write(Rejection(err) + "\n")
}

func (that *Console) write(s string) {
	// a terminal write failure has nowhere better to be reported
	_, _ = io.WriteString(that.out, s)
}

// Rejection turns an engine error into the message shown to players.
func Rejection(err error) string {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return "Cell is not empty"
	case errors.Is(err, apperror.ErrGameFinished):
		return "Game is over. Restart to play again."
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return "Pick a row and a column between 0 and 2"
	case errors.Is(err, apperror.ErrEmptyPlayerName):
		return "Please, insert both player's names."
	default:
		return err.Error()
	}
}

// Caption is the one-line status a page shows above the board.
func Caption(state entity.GameState) string {
	switch state.Status {
	case entity.StatusWon:
		return fmt.Sprintf("%s wins!", state.Winner)
	case entity.StatusDraw:
		return "It's a draw"
	default:
		return fmt.Sprintf("%s's turn", state.ActivePlayer.Name)
	}
}
