package models

// BoardColumn is one of the three mutually exclusive buckets a filtered
// task falls into on the board view.
type BoardColumn string

const (
	ColumnUrgent BoardColumn = "urgent"
	ColumnOpen   BoardColumn = "open"
	ColumnDone   BoardColumn = "done"
)

// BoardColumns lists the columns in display order.
var BoardColumns = []BoardColumn{ColumnUrgent, ColumnOpen, ColumnDone}

// Label returns the human-readable column name.
func (c BoardColumn) Label() string {
	switch c {
	case ColumnUrgent:
		return "Urgent"
	case ColumnOpen:
		return "Open"
	case ColumnDone:
		return "Done"
	}
	return string(c)
}
