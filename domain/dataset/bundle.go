package dataset

import (
	"fmt"

	"goeda/domain/core"
)

// Dataset is an ordered, row-aligned collection of named columns.
// Operations never mutate a Dataset in place; they return new values.
type Dataset struct {
	Columns []Column `json:"columns"`
}

// New validates that the columns share one length and have unique names
func New(columns ...Column) (Dataset, error) {
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if seen[col.Name] {
			return Dataset{}, fmt.Errorf("%w: duplicate column name %q", core.ErrInvalidArgument, col.Name)
		}
		seen[col.Name] = true
		if i > 0 && col.Len() != columns[0].Len() {
			return Dataset{}, fmt.Errorf("%w: column %q has %d rows, expected %d",
				core.ErrLengthMismatch, col.Name, col.Len(), columns[0].Len())
		}
	}
	out := make([]Column, len(columns))
	for i, col := range columns {
		out[i] = col.Clone()
	}
	return Dataset{Columns: out}, nil
}

// MustNew is New for fixtures and tests; it panics on invalid input
func MustNew(columns ...Column) Dataset {
	ds, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// RowCount returns the shared column length
func (d Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Names returns the column names in order
func (d Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Index returns the position of the named column or -1
func (d Dataset) Index(name string) int {
	for i, col := range d.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column
func (d Dataset) Column(name string) (Column, error) {
	idx := d.Index(name)
	if idx < 0 {
		return Column{}, core.NewColumnNotFoundError(name)
	}
	return d.Columns[idx].Clone(), nil
}

// Clone returns a deep copy of the dataset
func (d Dataset) Clone() Dataset {
	out := make([]Column, len(d.Columns))
	for i, col := range d.Columns {
		out[i] = col.Clone()
	}
	return Dataset{Columns: out}
}

// WithColumn returns a dataset in which the column of the same name is replaced.
// The replacement must keep the dataset's row count.
func (d Dataset) WithColumn(col Column) (Dataset, error) {
	idx := d.Index(col.Name)
	if idx < 0 {
		return Dataset{}, core.NewColumnNotFoundError(col.Name)
	}
	if col.Len() != d.RowCount() {
		return Dataset{}, fmt.Errorf("%w: column %q has %d rows, dataset has %d",
			core.ErrLengthMismatch, col.Name, col.Len(), d.RowCount())
	}
	out := d.Clone()
	out.Columns[idx] = col.Clone()
	return out, nil
}

// DropRows returns a dataset without the given row positions
func (d Dataset) DropRows(rows map[int]bool) Dataset {
	out := make([]Column, len(d.Columns))
	for i, col := range d.Columns {
		kept := make([]Cell, 0, col.Len()-len(rows))
		for r, v := range col.Values {
			if !rows[r] {
				kept = append(kept, v)
			}
		}
		out[i] = Column{Name: col.Name, Type: col.Type, Values: kept}
	}
	return Dataset{Columns: out}
}

// Types returns the declared type of every column
func (d Dataset) Types() TypeMap {
	m := make(TypeMap, len(d.Columns))
	for _, col := range d.Columns {
		m[col.Name] = col.Type
	}
	return m
}

// WithTypes returns a copy whose declared column types are taken from m.
// Columns absent from m keep their current type.
func (d Dataset) WithTypes(m TypeMap) Dataset {
	out := d.Clone()
	for i := range out.Columns {
		if t, ok := m[out.Columns[i].Name]; ok {
			out.Columns[i].Type = t
		}
	}
	return out
}
