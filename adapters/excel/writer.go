package excel

import (
	"encoding/csv"
	"io"
	"math"
	"strings"

	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataWriter exports datasets as CSV or XLSX
type DataWriter struct {
	opts   Options
	logger *internal.Logger
}

// NewDataWriter creates a writer with the given separators
func NewDataWriter(opts Options, logger *internal.Logger) *DataWriter {
	return &DataWriter{opts: opts, logger: logger.OrDefault().With("DataWriter")}
}

// WriteCSV writes a header row followed by one record per row.
// Missing cells are empty; decimals use the configured decimal separator.
func (w *DataWriter) WriteCSV(dst io.Writer, ds dataset.Dataset) error {
	if err := w.opts.Validate(); err != nil {
		return err
	}

	out := csv.NewWriter(dst)
	out.Comma = w.opts.comma()

	if err := out.Write(ds.Names()); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	record := make([]string, len(ds.Columns))
	for row := 0; row < ds.RowCount(); row++ {
		for j, col := range ds.Columns {
			record[j] = w.formatCell(col.Values[row])
		}
		if err := out.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write CSV row %d", row)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV data")
	}
	w.logger.Debug("wrote %d rows as CSV", ds.RowCount())
	return nil
}

func (w *DataWriter) formatCell(c dataset.Cell) string {
	if c.IsMissing() {
		return ""
	}
	s := c.String()
	if c.Kind() == dataset.KindFloat && w.opts.DecimalSeparator == "," {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

// WriteXLSX saves the dataset to a workbook using native cell types
func (w *DataWriter) WriteXLSX(path string, ds dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.opts.sheet()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return errors.Wrapf(err, "failed to name sheet %s", sheet)
		}
	}

	for j, col := range ds.Columns {
		ref, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return errors.Wrap(err, "failed to address header cell")
		}
		if err := f.SetCellValue(sheet, ref, col.Name); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
		for i, v := range col.Values {
			if v.IsMissing() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return errors.Wrap(err, "failed to address cell")
			}
			if err := f.SetCellValue(sheet, ref, nativeValue(v)); err != nil {
				return errors.Wrapf(err, "failed to write %s", ref)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.FileError(path, err)
	}
	w.logger.Info("saved %d rows to %s", ds.RowCount(), path)
	return nil
}

func nativeValue(c dataset.Cell) interface{} {
	switch c.Kind() {
	case dataset.KindInteger:
		v, _ := c.Int()
		return v
	case dataset.KindFloat:
		if v, _ := c.Float(); !math.IsInf(v, 0) {
			return v
		}
	}
	// Datetimes are written as ISO-8601 text so they read back as Datetime
	return c.String()
}
