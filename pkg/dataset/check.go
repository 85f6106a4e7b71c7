package dataset

import (
	"fmt"
)

// CheckSubmittal marks rows where dtrStatus says the document was submitted or approved
// but the given submittal-date column is empty. The message lands in the errorMsg column;
// the return value is the number of rows marked.
func (d *Dataset) CheckSubmittal(dateColumn string) int {
	if !d.HasColumn("dtrStatus") || !d.HasColumn(dateColumn) {
		return 0
	}
	d.AddColumn("errorMsg")

	message := fmt.Sprintf("%s empty and dtrStatus in (Submitted, Approved)", dateColumn)
	marked := 0
	for _, row := range d.rows {
		status := row["dtrStatus"]
		if (status == "Submitted" || status == "Approved") && row[dateColumn] == "" {
			row["errorMsg"] = message
			marked++
		}
	}
	return marked
}
