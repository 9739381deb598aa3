package main

import (
	"os"
	"path/filepath"
	"strings"

	"goeda/app"
	"goeda/domain/dataset"
	"goeda/internal/config"
	"goeda/internal/container"
	"goeda/internal/errors"
	"goeda/ports"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	configFile string
	sep        string
	decimal    string
	sheet      string
	format     string
	logLevel   string
}

// env is everything a command needs once flags and config are resolved
type env struct {
	cfg     *config.Config
	service *app.Service
	reader  ports.DatasetReader
	writer  ports.DatasetWriter
	format  string
}

func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.sep != "" {
		cfg.Input.ColumnSeparator = f.sep
	}
	if f.decimal != "" {
		cfg.Input.DecimalSeparator = f.decimal
	}
	if f.sheet != "" {
		cfg.Input.Sheet = f.sheet
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}

func (f *globalFlags) env() (*env, error) {
	format, err := parseFormat(f.format)
	if err != nil {
		return nil, err
	}
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		service: c.Service,
		reader:  c.Reader,
		writer:  c.Writer,
		format:  format,
	}, nil
}

// load reads and ingests a file
func (e *env) load(path string) (dataset.Dataset, dataset.TypeMap, error) {
	raw, err := e.reader.ReadFile(path)
	if err != nil {
		return dataset.Dataset{}, nil, err
	}
	ds, types := e.service.Ingest(raw)
	return ds, types, nil
}

// save writes ds to path; the extension picks XLSX or CSV
func (e *env) save(path string, ds dataset.Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return e.writer.WriteXLSX(path, ds)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.FileError(path, err)
	}
	if err := e.writer.WriteCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.FileError(path, err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
