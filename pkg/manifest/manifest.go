// Package manifest parses and validates pip-style dependency manifests.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Requirement represents a single line of a requirements.txt-style manifest. It's not meant to
// power a full-fledged resolver - just the name/comparator/version triple that we care about
// when checking a manifest for well-formedness.
type Requirement struct {
	Name       string
	Comparator string
	Version    string

	// Literal is the string value that this Requirement was originally parsed from, if any.
	Literal string

	// Parsed indicates whether the Name, Comparator and Version fields are valid and can be
	// read from. If this is false, then the Literal field should be used.
	Parsed bool

	// Line is the 1-based line number in the source manifest, or 0 for requirements built
	// programmatically.
	Line int
}

// RequirementLine returns the canonical string form of the requirement.
func (r Requirement) RequirementLine() string {
	if !r.Parsed {
		return r.Literal
	}
	return r.Name + r.Comparator + r.Version
}

// Constraint returns the comparator and version half of the line, e.g. ">=2.1.0".
func (r Requirement) Constraint() string {
	return r.Comparator + r.Version
}

// Manifest is an ordered collection of requirement lines.
type Manifest struct {
	Requirements []Requirement
}

// Issue describes a problem found while validating a manifest.
type Issue struct {
	Line    int
	Text    string
	Reason  string
	Warning bool
}

func (i Issue) String() string {
	severity := "error"
	if i.Warning {
		severity = "warning"
	}
	return fmt.Sprintf("line %d: %s: %s: %q", i.Line, severity, i.Reason, i.Text)
}

// ParseLine splits a single requirement line into its name, comparator and version. If the
// line can't be parsed the returned Requirement passes the literal through with Parsed set
// to false, so callers are free to keep unrecognized lines intact.
func ParseLine(s string) Requirement {
	req := Requirement{Literal: strings.TrimSpace(s)}

	name, comparator, rest, ok := splitComparator(req.Literal)
	if !ok {
		return req
	}
	if _, err := goversion.NewVersion(rest); err != nil {
		return req
	}

	req.Name = name
	req.Comparator = comparator
	req.Version = rest
	req.Parsed = true
	return req
}

// Parse reads a manifest, one requirement per line. Blank lines and lines starting with #
// are skipped. Lines that don't parse are kept as literals; use Validate to reject them.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		req := ParseLine(text)
		req.Line = line
		m.Requirements = append(m.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

// Load parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the first requirement for the named package. Names are matched the way
// package indexes match them: case-insensitively, with '-' and '_' interchangeable.
func (m *Manifest) Lookup(name string) (Requirement, bool) {
	key := canonicalName(name)
	for _, req := range m.Requirements {
		if req.Parsed && canonicalName(req.Name) == key {
			return req, true
		}
	}
	return Requirement{}, false
}

// Validate checks the manifest for well-formedness: every line must split into
// <name><comparator><version> with a parseable version, and no package may appear twice
// with conflicting constraints. Exact duplicates are reported as warnings.
func (m *Manifest) Validate() []Issue {
	var issues []Issue
	seen := map[string]Requirement{}

	for _, req := range m.Requirements {
		if !req.Parsed {
			issues = append(issues, invalidLineIssue(req))
			continue
		}

		key := canonicalName(req.Name)
		prev, dup := seen[key]
		if !dup {
			seen[key] = req
			continue
		}
		if prev.Constraint() == req.Constraint() {
			issues = append(issues, Issue{
				Line:    req.Line,
				Text:    req.Literal,
				Reason:  fmt.Sprintf("duplicate of line %d", prev.Line),
				Warning: true,
			})
		} else {
			issues = append(issues, Issue{
				Line:   req.Line,
				Text:   req.Literal,
				Reason: fmt.Sprintf("%s conflicts with %s on line %d", req.Constraint(), prev.Constraint(), prev.Line),
			})
		}
	}
	return issues
}

// Errors reports whether any issue in the slice is an error rather than a warning.
func Errors(issues []Issue) bool {
	for _, issue := range issues {
		if !issue.Warning {
			return true
		}
	}
	return false
}

// String renders the manifest back to file content, one requirement per line in the
// original order.
func (m *Manifest) String() string {
	lines := make([]string, 0, len(m.Requirements))
	for _, req := range m.Requirements {
		lines = append(lines, req.RequirementLine())
	}
	return strings.Join(lines, "\n")
}

// comparators accepted in a requirement line, two-character operators first so that ">="
// is never read as ">" followed by a version starting with "=".
var comparators = []string{"==", ">=", "<=", "!=", "~=", ">", "<"}

func splitComparator(line string) (name, comparator, version string, ok bool) {
	cut := len(line)
	for _, c := range comparators {
		if i := strings.Index(line, c); i >= 0 && i < cut {
			cut = i
			comparator = c
		}
	}
	if comparator == "" {
		return "", "", "", false
	}

	name = strings.TrimSpace(line[:cut])
	version = strings.TrimSpace(line[cut+len(comparator):])
	if name == "" || version == "" || !validName(name) {
		return "", "", "", false
	}
	return name, comparator, version, true
}

func validName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case i > 0 && (r == '.' || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// nameSeparators matches the characters package indexes treat as interchangeable in a
// package name: runs of '-', '_' and '.' all compare equal to a single '-'.
var nameSeparators = regexp.MustCompile(`[-_.]+`)

func canonicalName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

func invalidLineIssue(req Requirement) Issue {
	reason := "does not match <name><comparator><version>"
	if _, comparator, version, ok := splitComparator(req.Literal); ok {
		if _, err := goversion.NewVersion(version); err != nil {
			reason = fmt.Sprintf("invalid version %q after %q", version, comparator)
		}
	}
	return Issue{Line: req.Line, Text: req.Literal, Reason: reason}
}
