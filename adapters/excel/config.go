package excel

import (
	"fmt"
	"unicode/utf8"

	"goeda/internal/errors"
)

// Options controls how delimited and spreadsheet files are parsed and written.
// Separators are passed explicitly on every call.
type Options struct {
	ColumnSeparator  string `json:"column_separator"`
	DecimalSeparator string `json:"decimal_separator"`
	Sheet            string `json:"sheet"`
}

// DefaultOptions matches the European CSV layout: ';' between columns, ',' as decimal mark
func DefaultOptions() Options {
	return Options{ColumnSeparator: ";", DecimalSeparator: ",", Sheet: "Sheet1"}
}

// Validate checks the separators
func (o Options) Validate() error {
	if utf8.RuneCountInString(o.ColumnSeparator) != 1 {
		return errors.InvalidInput(fmt.Sprintf("column separator %q must be a single character", o.ColumnSeparator))
	}
	if o.DecimalSeparator != "." && o.DecimalSeparator != "," {
		return errors.InvalidInput(fmt.Sprintf("decimal separator %q must be '.' or ','", o.DecimalSeparator))
	}
	if o.ColumnSeparator == o.DecimalSeparator {
		return errors.InvalidInput("column and decimal separators must differ")
	}
	return nil
}

func (o Options) comma() rune {
	r, _ := utf8.DecodeRuneInString(o.ColumnSeparator)
	return r
}

func (o Options) sheet() string {
	if o.Sheet == "" {
		return DefaultOptions().Sheet
	}
	return o.Sheet
}
