package entity

// Cell holds a single mark. The zero value is an empty cell.
type Cell struct {
	mark Mark
}

func (that *Cell) Value() Mark {
	return that.mark
}

// Put overwrites the stored mark. Emptiness checks are the caller's job.
func (that *Cell) Put(mark Mark) {
	that.mark = mark
}
