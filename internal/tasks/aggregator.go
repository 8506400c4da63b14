package tasks

// Aggregator accumulates rows across folders in the order they are appended
type Aggregator struct {
	rows []Row
}

// Append adds rows to the end of the result
func (a *Aggregator) Append(rows ...Row) {
	a.rows = append(a.rows, rows...)
}

// Rows returns the accumulated rows. It never returns nil.
func (a *Aggregator) Rows() []Row {
	if a.rows == nil {
		return []Row{}
	}
	return a.rows
}

// Len returns the number of accumulated rows
func (a *Aggregator) Len() int {
	return len(a.rows)
}
