// Package export renders result sets to the flat CSV file consumed downstream.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/feed-harvester/internal/entity"
)

// DefaultFileName is used when no output path is configured.
const DefaultFileName = "facebookGroupPostsAndComments.csv"

// FormatCSV renders records under the fixed column header. Every present
// value is quoted, null values are written as a bare null and absent values
// leave the cell empty. Rows are joined by a newline with no trailing one.
func FormatCSV(records []entity.Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(entity.Columns, ","))
	for _, r := range records {
		b.WriteByte('\n')
		for i, col := range entity.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatCell(r.Column(col)))
		}
	}
	return b.String()
}

func formatCell(f entity.Field) string {
	switch f.State {
	case entity.FieldNull:
		return "null"
	case entity.FieldText:
		return `"` + strings.ReplaceAll(f.Value, `"`, `""`) + `"`
	default:
		return ""
	}
}

// WriteCSV writes the rendered records to w.
func WriteCSV(w io.Writer, records []entity.Record) error {
	if _, err := io.WriteString(w, FormatCSV(records)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the records to path, creating parent directories.
func WriteCSVFile(path string, records []entity.Record) error {
	if path == "" {
		path = DefaultFileName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(FormatCSV(records)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
