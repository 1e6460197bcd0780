// Package common holds helpers shared by the cross-adapter tests.
package common

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// AdapterTestCase represents a test case for an adapter
type AdapterTestCase struct {
	Name        string
	Adapter     sheetbridge.Adapter
	Description string
}

// SheetName returns a sheet name unlikely to exist in a shared spreadsheet
func SheetName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// SeedSheet adds a sheet and writes rows from A1
func SeedSheet(t *testing.T, adapter sheetbridge.Adapter, sheet string, rows sheetbridge.Grid) {
	t.Helper()

	ctx := context.Background()
	if err := adapter.AddSheet(ctx, sheet); err != nil {
		t.Fatalf("Failed to add sheet %s: %v", sheet, err)
	}
	if err := adapter.Update(ctx, sheet, "A1", rows); err != nil {
		t.Fatalf("Failed to seed sheet %s: %v", sheet, err)
	}
}

// CreateTestClient creates a client over adapter with sheet as default
func CreateTestClient(t *testing.T, adapter sheetbridge.Adapter, sheet string) *sheetbridge.Client {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if testing.Verbose() {
		logger.SetOutput(&testWriter{t: t})
		logger.SetLevel(logrus.DebugLevel)
	}

	return sheetbridge.New(adapter, &sheetbridge.Config{
		DefaultSheet: sheet,
		Logger:       logger,
	})
}

// testWriter sends log lines to t.Log
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
