package container

import (
	"goeda/adapters/api"
	"goeda/adapters/excel"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/config"
	"goeda/internal/errors"
	"goeda/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// File collaborators
	Reader ports.DatasetReader
	Writer ports.DatasetWriter

	// Engine
	Service   *app.Service
	Workspace *app.Workspace

	// HTTP facade
	Server *api.Server
}

// New creates a container from a validated configuration
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	}

	if err := c.initFiles(); err != nil {
		return nil, err
	}
	c.initEngine()
	c.Server = api.NewServer(c.Service, c.Logger)

	c.Logger.Debug("container initialized")
	return c, nil
}

// initFiles builds the CSV/XLSX reader and writer from the input section
func (c *Container) initFiles() error {
	opts := excel.Options{
		ColumnSeparator:  c.Config.Input.ColumnSeparator,
		DecimalSeparator: c.Config.Input.DecimalSeparator,
		Sheet:            c.Config.Input.Sheet,
	}
	if err := opts.Validate(); err != nil {
		return errors.Wrap(err, "invalid input settings")
	}
	c.Reader = excel.NewDataReader(opts, c.Logger)
	c.Writer = excel.NewDataWriter(opts, c.Logger)
	return nil
}

func (c *Container) initEngine() {
	c.Service = app.NewService(c.Config, c.Logger)
	c.Workspace = app.NewWorkspace(c.Service)
}
