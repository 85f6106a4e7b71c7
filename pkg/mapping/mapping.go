// Package mapping consolidates program names into group names for reporting, driven by
// a semicolon-delimited text file.
package mapping

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

const (
	// File is the mapping file expected next to the data, one "program;group" per line.
	File = "program_group.txt"

	delimiter = ";"
)

type Map map[string]string

// Require checks that the mapping file exists. It is required even when empty, so a
// missing file is a configuration mistake rather than "no mapping wanted".
func Require(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not found. This file is required for program mapping; create an empty one to proceed without mapping", path)
		}
		return err
	}
	return nil
}

// Load reads program-to-group mappings. Blank lines and lines without the delimiter are
// skipped; duplicate programs overwrite with a warning.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mapping := Map{}
	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.Contains(line, delimiter) {
			console.Debugf("Line %d skipped (no delimiter): %s", lineNumber, line)
			continue
		}

		parts := strings.SplitN(line, delimiter, 2)
		program := strings.TrimSpace(parts[0])
		group := strings.TrimSpace(parts[1])
		if program == "" || group == "" {
			console.Warnf("Line %d has empty values: %q", lineNumber, line)
			continue
		}
		if _, dup := mapping[program]; dup {
			console.Warnf("Duplicate program %q on line %d (overwriting)", program, lineNumber)
		}
		mapping[program] = group
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	console.Infof("Program mapping loaded: %d entries from %d lines", len(mapping), lineNumber)
	return mapping, nil
}

// Apply rewrites the program column through the mapping. Programs without a mapping keep
// their original names. Returns the number of cells rewritten.
func (m Map) Apply(d *dataset.Dataset) int {
	if !d.HasColumn("program") {
		console.Warn("'program' column not found - skipping mapping")
		return 0
	}

	before := uniquePrograms(d)
	mapped := 0
	for row := 0; row < d.Len(); row++ {
		if group, ok := m[d.Value(row, "program")]; ok {
			d.SetValue(row, "program", group)
			mapped++
		}
	}
	after := uniquePrograms(d)
	console.Infof("Programs before mapping: %d unique values", before)
	console.Infof("Programs after mapping: %d unique values", after)
	return mapped
}

func uniquePrograms(d *dataset.Dataset) int {
	seen := map[string]bool{}
	for row := 0; row < d.Len(); row++ {
		seen[d.Value(row, "program")] = true
	}
	return len(seen)
}
