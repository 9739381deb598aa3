package ports

import (
	"io"

	"goeda/domain/dataset"
)

// DatasetReader loads a dataset from a file or stream.
// Implementations return untyped columns; typing is the engine's job.
type DatasetReader interface {
	ReadFile(path string) (dataset.Dataset, error)
	ReadCSV(src io.Reader) (dataset.Dataset, error)
}

// DatasetWriter exports a dataset
type DatasetWriter interface {
	WriteCSV(dst io.Writer, ds dataset.Dataset) error
	WriteXLSX(path string, ds dataset.Dataset) error
}
