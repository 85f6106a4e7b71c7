// Package dataset holds extracted records as an ordered tabular structure and writes
// them out as CSV and Excel.
package dataset

import (
	"sort"
)

type Dataset struct {
	columns  []string
	colIndex map[string]bool
	rows     []map[string]string
}

func New() *Dataset {
	return &Dataset{colIndex: map[string]bool{}}
}

// Append adds one record, registering any columns not seen before. New columns are
// added in sorted order so that ingestion order of map keys doesn't shuffle the output.
func (d *Dataset) Append(record map[string]string) {
	var added []string
	for key := range record {
		if !d.colIndex[key] {
			d.colIndex[key] = true
			added = append(added, key)
		}
	}
	sort.Strings(added)
	d.columns = append(d.columns, added...)

	row := make(map[string]string, len(record))
	for k, v := range record {
		row[k] = v
	}
	d.rows = append(d.rows, row)
}

// Concat appends all rows of other, merging its columns.
func (d *Dataset) Concat(other *Dataset) {
	if other == nil {
		return
	}
	for _, col := range other.columns {
		d.AddColumn(col)
	}
	for _, row := range other.rows {
		copied := make(map[string]string, len(row))
		for k, v := range row {
			copied[k] = v
		}
		d.rows = append(d.rows, copied)
	}
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

func (d *Dataset) Empty() bool {
	return len(d.rows) == 0
}

// Columns returns the column names in output order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *Dataset) HasColumn(name string) bool {
	return d.colIndex[name]
}

// AddColumn registers a column at the end of the order if it isn't present yet.
func (d *Dataset) AddColumn(name string) {
	if !d.colIndex[name] {
		d.colIndex[name] = true
		d.columns = append(d.columns, name)
	}
}

func (d *Dataset) DropColumn(name string) {
	if !d.colIndex[name] {
		return
	}
	delete(d.colIndex, name)
	for i, col := range d.columns {
		if col == name {
			d.columns = append(d.columns[:i], d.columns[i+1:]...)
			break
		}
	}
	for _, row := range d.rows {
		delete(row, name)
	}
}

// Value returns the cell at row/column, empty string when unset.
func (d *Dataset) Value(row int, column string) string {
	return d.rows[row][column]
}

func (d *Dataset) SetValue(row int, column string, value string) {
	d.AddColumn(column)
	d.rows[row][column] = value
}

// MergeColumns fills empty cells of dst from src and returns the number of cells filled.
func (d *Dataset) MergeColumns(dst, src string) int {
	if !d.colIndex[dst] || !d.colIndex[src] {
		return 0
	}
	filled := 0
	for _, row := range d.rows {
		if row[dst] == "" && row[src] != "" {
			row[dst] = row[src]
			filled++
		}
	}
	return filled
}

// Reorder returns a copy whose columns follow the standard order: standard columns
// first (missing ones added empty), then any extra columns in their current order.
// A nil standard order returns an unchanged copy.
func (d *Dataset) Reorder(standard []string) *Dataset {
	out := New()
	for _, col := range standard {
		out.AddColumn(col)
	}
	for _, col := range d.columns {
		out.AddColumn(col)
	}
	for _, row := range d.rows {
		copied := make(map[string]string, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.rows = append(out.rows, copied)
	}
	return out
}
