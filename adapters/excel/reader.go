package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// datetimeLayouts are the ISO-8601 forms recognised as Datetime cells
var datetimeLayouts = []string{
	dataset.DatetimeLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DataReader reads CSV and XLSX files into untyped datasets
type DataReader struct {
	opts   Options
	logger *internal.Logger
}

// NewDataReader creates a reader with the given separators
func NewDataReader(opts Options, logger *internal.Logger) *DataReader {
	return &DataReader{opts: opts, logger: logger.OrDefault().With("DataReader")}
}

// ReadFile reads a .csv or .xlsx file, chosen by extension
func (r *DataReader) ReadFile(path string) (dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return dataset.Dataset{}, errors.FileError(path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return dataset.Dataset{}, errors.FileError(path, err)
		}
		defer f.Close()
		return r.ReadCSV(f)
	case ".xlsx", ".xlsm":
		return r.ReadXLSX(path)
	}
	return dataset.Dataset{}, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)))
}

// ReadCSV parses delimited text using the configured column separator
func (r *DataReader) ReadCSV(src io.Reader) (dataset.Dataset, error) {
	if err := r.opts.Validate(); err != nil {
		return dataset.Dataset{}, err
	}

	reader := csv.NewReader(src)
	reader.Comma = r.opts.comma()
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(err, "failed to read CSV data")
	}
	r.logger.Debug("CSV read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// ReadXLSX reads the configured sheet of a workbook
func (r *DataReader) ReadXLSX(path string) (dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataset.Dataset{}, errors.FileError(path, err)
	}
	defer f.Close()

	sheet := r.opts.sheet()
	start := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Dataset{}, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows turns raw rows into a dataset of untyped columns.
// The first row is the header; short rows are padded with Missing.
func (r *DataReader) processRows(rows [][]string) (dataset.Dataset, error) {
	table, err := toTable(rows)
	if err != nil {
		return dataset.Dataset{}, err
	}

	columns := make([]dataset.Column, len(table.Headers))
	for j, name := range table.Headers {
		cells := make([]dataset.Cell, len(table.Rows))
		for i, row := range table.Rows {
			if j < len(row) {
				cells[i] = ParseCell(row[j])
			}
		}
		columns[j] = dataset.NewColumn(name, dataset.TypeUnknown, cells)
	}

	ds, err := dataset.New(columns...)
	if err != nil {
		return dataset.Dataset{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	r.logger.Info("file processed (%d columns, %d rows)", len(columns), ds.RowCount())
	return ds, nil
}

func toTable(rows [][]string) (ExcelData, error) {
	if len(rows) == 0 {
		return ExcelData{}, errors.InvalidInput("file must have a header row")
	}

	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(headers))
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return ExcelData{}, errors.InvalidInput(fmt.Sprintf("duplicate column header %q", h))
		}
		seen[h] = true
		headers[i] = h
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
	}
	return ExcelData{Headers: headers, Rows: data}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseCell turns raw text into a cell: blank is Missing, ISO-8601 date-times
// become Datetime, everything else stays text for the classifier to judge.
func ParseCell(raw string) dataset.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return dataset.Missing()
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dataset.NewDatetime(t)
		}
	}
	return dataset.NewString(s)
}
