package dataset

// ColumnOutcome reports what a batch operation did to one column.
// A failure on one column never affects the others.
type ColumnOutcome struct {
	Column  string `json:"column"`
	Applied bool   `json:"applied"`
	Changed int    `json:"changed"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// Failed reports whether the column's operation returned an error
func (o ColumnOutcome) Failed() bool {
	return o.Err != nil
}
