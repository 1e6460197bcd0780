package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	sheetbridge "github.com/ideamans/go-sheetbridge"
	"github.com/ideamans/go-sheetbridge/adapters/excel"
	"github.com/ideamans/go-sheetbridge/adapters/googlesheets"
	"github.com/ideamans/go-sheetbridge/adapters/memory"
	"github.com/ideamans/go-sheetbridge/bridge"
	"github.com/ideamans/go-sheetbridge/internal/config"
	"github.com/ideamans/go-sheetbridge/internal/logging"
)

// openAdapterFunc builds the adapter selected by the configuration
type openAdapterFunc func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (sheetbridge.Adapter, error)

// app carries the state shared by the subcommands
type app struct {
	out    io.Writer
	errOut io.Writer

	// flags
	envFiles []string
	backend  string
	sheet    string
	debug    bool
	asJSON   bool

	config     *config.Config
	log        *logrus.Logger
	client     *sheetbridge.Client
	dispatcher *bridge.Dispatcher

	openAdapter openAdapterFunc
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:         out,
		errOut:      errOut,
		openAdapter: openAdapter,
	}
}

// setup loads the configuration and the logger
func (a *app) setup() error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = config.Backend(a.backend)
	}
	if a.debug {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	log, err := logging.New(a.errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.config = cfg
	a.log = log

	for _, path := range cfg.EnvFiles {
		log.WithField("file", path).Debug("env file loaded")
	}

	return nil
}

// connect validates the configuration and opens the spreadsheet
func (a *app) connect(ctx context.Context) error {
	if err := a.setup(); err != nil {
		return err
	}

	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if a.config.TokenMatches() {
		a.log.Debug("API_TOKEN is correct")
	} else {
		a.log.Warn("unexpected API_TOKEN")
	}

	adapter, err := a.openAdapter(ctx, a.config, a.log)
	if err != nil {
		return err
	}

	a.client = sheetbridge.New(adapter, &sheetbridge.Config{
		DefaultSheet: a.config.DefaultSheet,
		Logger:       a.log,
	})
	a.dispatcher = bridge.NewDispatcher(a.client, a.log)

	return nil
}

func openAdapter(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (sheetbridge.Adapter, error) {
	switch cfg.Backend {
	case config.BackendExcel:
		log.WithField("file", cfg.ExcelFile).Info("using excel workbook")
		return excel.New(&excel.Config{FilePath: cfg.ExcelFile})

	case config.BackendMemory:
		log.Warn("using in-memory spreadsheet, changes are lost on exit")
		return memory.New("memory", "sheetbridge"), nil

	default:
		key, err := googlesheets.LoadServiceAccountFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"client_email":   key.ClientEmail,
			"spreadsheet_id": cfg.SpreadsheetID,
		}).Info("service account loaded")

		return googlesheets.NewWithServiceAccountKey(ctx, googlesheets.Config{SpreadsheetID: cfg.SpreadsheetID}, key)
	}
}
