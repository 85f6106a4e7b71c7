// Package debugfiles writes request and response artifacts to disk while debug mode is on.
package debugfiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gsy-tools/gsy/pkg/util/console"
)

type Writer struct {
	Enabled bool
	Root    string
}

func New(enabled bool) *Writer {
	return &Writer{Enabled: enabled, Root: "debug"}
}

// WriteText writes content to name under the debug root. Failures are warnings, never
// errors: a failed debug artifact must not stop an extraction.
func (w *Writer) WriteText(name string, content string) {
	if w == nil || !w.Enabled {
		return
	}
	path := filepath.Join(w.Root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		console.Warnf("Debug write failed for %q: %s", path, err)
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		console.Warnf("Debug write failed for %q: %s", path, err)
	}
}

// WriteJSON writes v pretty-printed to name under the debug root.
func (w *Writer) WriteJSON(name string, v interface{}) {
	if w == nil || !w.Enabled {
		return
	}
	formatted, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		w.WriteText(name, fmt.Sprintf("%v", v))
		return
	}
	w.WriteText(name, string(formatted))
}

// File naming for the stages of a single program fetch.

func URLFile(system string, program, page int) string {
	return filepath.Join(system, fmt.Sprintf("url_%03d_page%02d_%s.txt", program, page, system))
}

func ResponseFile(system string, program, page int) string {
	return filepath.Join(system, fmt.Sprintf("response_%03d_page%02d_%s.json", program, page, system))
}

func ParsedFile(system string, program, page int) string {
	return filepath.Join(system, fmt.Sprintf("parsed_%03d_page%02d_%s.json", program, page, system))
}

func RecordsFile(system string, program, page int) string {
	return filepath.Join(system, fmt.Sprintf("records_%03d_page%02d_%s.csv", program, page, system))
}
