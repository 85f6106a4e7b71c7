package dataset

import (
	"encoding/csv"
	"io"
	"os"
)

// WriteCSV writes the dataset as UTF-8 CSV with a header row.
func (d *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.columns); err != nil {
		return err
	}
	record := make([]string, len(d.columns))
	for _, row := range d.rows {
		for i, col := range d.columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes the dataset to a CSV file at path.
func (d *Dataset) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
