package insomnia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/user/feed-harvester/internal/entity"
)

const DefaultOutputFile = "insomnia-export.json"

// Encode writes doc as JSON indented by two spaces.
func Encode(w io.Writer, doc *entity.InsomniaExport) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	// Encoder appends a newline; the document ends at the closing brace.
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}

// WriteFile writes doc to path, or to DefaultOutputFile when path is empty.
func WriteFile(path string, doc *entity.InsomniaExport) error {
	if path == "" {
		path = DefaultOutputFile
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
