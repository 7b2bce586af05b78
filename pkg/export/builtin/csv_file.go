package builtin

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/sirupsen/logrus"
)

// TypeCSVFile is the sink type for CSV file export.
const TypeCSVFile = "csv_file"

// CSVFileSink writes a report table to <dir>/<report id>.csv.
// Undefined ratio cells are written empty, not as zero.
type CSVFileSink struct {
	config export.Config
	dir    string
}

// NewCSVFileSink creates a CSV file sink.
func NewCSVFileSink(config export.Config) *CSVFileSink {
	return &CSVFileSink{
		config: config,
		dir:    config.GetString("directory", "out"),
	}
}

// ID returns the sink identifier.
func (s *CSVFileSink) ID() string {
	return s.config.ID
}

// Name returns the sink name.
func (s *CSVFileSink) Name() string {
	return "CSV File Export"
}

// Config returns the sink configuration.
func (s *CSVFileSink) Config() export.Config {
	return s.config
}

// Export writes the table as a CSV file with a header row.
func (s *CSVFileSink) Export(ctx context.Context, table *report.Table) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, table.ReportID+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			cells[i] = formatCell(row[col])
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	logrus.Infof("wrote %d rows of report %s to %s", len(table.Rows), table.ReportID, path)
	return nil
}

// formatCell renders a row value as a CSV cell.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', 2, 64)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
