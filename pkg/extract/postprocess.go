package extract

import (
	"strings"

	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

// FixEstimatedDates rewrites ColdFusion timestamps like {ts '2024-03-15 00:00:00'}
// in the estimated-date column to DD/MM/YYYY. Values already in another format are
// left alone. Returns the number of values rewritten.
func FixEstimatedDates(d *dataset.Dataset) int {
	column := estimatedDateColumn(d)
	if column == "" {
		return 0
	}

	fixed := 0
	for row := 0; row < d.Len(); row++ {
		if out, ok := normalizeColdFusionDate(d.Value(row, column)); ok {
			d.SetValue(row, column, out)
			fixed++
		}
	}
	if fixed > 0 {
		console.Infof("Date correction complete: %d dates corrected in column %q", fixed, column)
	}
	return fixed
}

func estimatedDateColumn(d *dataset.Dataset) string {
	for _, column := range d.Columns() {
		lower := strings.ToLower(column)
		if strings.Contains(lower, "estimated") && strings.Contains(lower, "date") {
			return column
		}
	}
	columns := d.Columns()
	if len(columns) >= 3 {
		return columns[2]
	}
	return ""
}

func normalizeColdFusionDate(value string) (string, bool) {
	var datePart string
	switch {
	case strings.HasPrefix(value, "{ts '") && strings.HasSuffix(value, "'}"):
		timestamp := value[len("{ts '") : len(value)-len("'}")]
		datePart, _, _ = strings.Cut(timestamp, " ")
	case strings.Contains(value, " ") && strings.Contains(value, "-"):
		_, datePart, _ = strings.Cut(value, " ")
	default:
		return "", false
	}

	parts := strings.Split(datePart, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return "", false
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0], true
}

// MergeFinishedDates folds the misspelled grtpFinishedDate field some records carry
// into gtpFinishedDate, then drops the misspelled column.
func MergeFinishedDates(d *dataset.Dataset) {
	if !d.HasColumn("grtpFinishedDate") {
		return
	}
	if !d.HasColumn("gtpFinishedDate") {
		d.AddColumn("gtpFinishedDate")
	}
	filled := d.MergeColumns("gtpFinishedDate", "grtpFinishedDate")
	d.DropColumn("grtpFinishedDate")
	console.Infof("Merged grtpFinishedDate into gtpFinishedDate: %d values filled", filled)
}
