// Package export serializes collected records to CSV or XLSX with the fixed
// schema header.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"litcoder/internal/schema"
)

// ErrNoRecords means there is nothing to write; callers should skip the
// export rather than emit an empty file.
var ErrNoRecords = errors.New("no records to export")

// utf8BOM makes spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Service struct {
	outputFolder string
	log          *slog.Logger
}

func NewService(outputFolder string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{outputFolder: outputFolder, log: log}
}

// DefaultFilename returns a timestamped output name for the given extension.
func DefaultFilename(ext string) string {
	return fmt.Sprintf("literature_coding_results_%s.%s",
		time.Now().Format("20060102_150405"), ext)
}

// ExportCSV writes all records as UTF-8 CSV with a byte-order mark, columns
// in schema order, one row per record. Returns the written path.
func (s *Service) ExportCSV(records []schema.Record, filename string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	if filename == "" {
		filename = DefaultFilename("csv")
	}
	if err := os.MkdirAll(s.outputFolder, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}
	path := filepath.Join(s.outputFolder, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warn("csv close error", "path", path, "error", cerr)
		}
	}()

	if _, err := f.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(schema.Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv flush: %w", err)
	}

	s.log.Info("export.csv.ok", "path", path, "rows", len(records))
	return path, nil
}
