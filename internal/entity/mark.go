package entity

// Mark is the value stored in a cell: empty or one of the two player symbols.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

func (that Mark) IsEmpty() bool {
	return that == MarkEmpty
}

// Valid reports whether the mark is empty, X or O.
func (that Mark) Valid() bool {
	switch that {
	case MarkEmpty, MarkX, MarkO:
		return true
	default:
		return false
	}
}

// Opponent returns the other player's symbol. Empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}
