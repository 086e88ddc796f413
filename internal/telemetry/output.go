package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/iburimskiy/snowfall/internal/config"
)

// OutputManager writes tick windows to ticks.csv in an output directory.
type OutputManager struct {
	mu            sync.Mutex
	dir           string
	ticksFile     *os.File
	headerWritten bool
}

// NewOutputManager creates dir and opens ticks.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}
	return &OutputManager{dir: dir, ticksFile: f}, nil
}

// WriteConfig saves the effective configuration next to the CSV.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends one window record.
func (om *OutputManager) WriteWindow(ws WindowStats) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	records := []WindowStats{ws}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.ticksFile); err != nil {
			return fmt.Errorf("writing ticks: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.ticksFile); err != nil {
		return fmt.Errorf("writing ticks: %w", err)
	}
	return nil
}

// Close closes the CSV file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()
	return om.ticksFile.Close()
}
