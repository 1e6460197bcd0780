package sheetbridge

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultReadRange is the range read by ReadSheet
const DefaultReadRange = "A1:Z1000"

// DefaultRowLayout is the fixed column order used by CreateRow
var DefaultRowLayout = []string{
	"FECHA",
	"EJE",
	"PROYECTO",
	"SUBPROYECTO",
	"TEMA",
	"DETALLE",
	"ESTADO",
	"PRIORIDAD",
	"ASIGNADO_A",
	"OBSERVACIONES",
}

// Config represents configuration for the sheet operations client
type Config struct {
	DefaultSheet string             // Sheet used when an operation receives an empty name
	ReadRange    string             // Range returned by ReadSheet (default: A1:Z1000)
	RowLayout    []string           // Field order of rows built by CreateRow (default: DefaultRowLayout)
	Logger       logrus.FieldLogger // Optional, discards output when nil
}

func (c *Config) withDefaults() Config {
	config := Config{}
	if c != nil {
		config = *c
	}

	if config.ReadRange == "" {
		config.ReadRange = DefaultReadRange
	}
	if len(config.RowLayout) == 0 {
		config.RowLayout = DefaultRowLayout
	}
	if config.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		config.Logger = logger
	}

	return config
}
