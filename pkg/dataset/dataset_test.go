package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendRegistersColumnsSorted(t *testing.T) {
	d := New()
	d.Append(map[string]string{"gtpNumber": "GTP-1", "program": "E2"})
	d.Append(map[string]string{"gtpNumber": "GTP-2", "agreedDate": "2024/01/01"})

	require.Equal(t, []string{"gtpNumber", "program", "agreedDate"}, d.Columns())
	require.Equal(t, 2, d.Len())
	require.Equal(t, "GTP-2", d.Value(1, "gtpNumber"))
	require.Equal(t, "", d.Value(1, "program"))
}

func TestConcatMergesColumns(t *testing.T) {
	a := New()
	a.Append(map[string]string{"docNumber": "D-1"})
	b := New()
	b.Append(map[string]string{"docNumber": "D-2", "docTitle": "title"})

	a.Concat(b)
	require.Equal(t, 2, a.Len())
	require.Equal(t, []string{"docNumber", "docTitle"}, a.Columns())
	require.Equal(t, "title", a.Value(1, "docTitle"))
}

func TestMergeColumns(t *testing.T) {
	d := New()
	d.Append(map[string]string{"gtpFinishedDate": "", "grtpFinishedDate": "2024/05/01"})
	d.Append(map[string]string{"gtpFinishedDate": "2023/01/01", "grtpFinishedDate": "2024/06/01"})

	filled := d.MergeColumns("gtpFinishedDate", "grtpFinishedDate")
	require.Equal(t, 1, filled)
	require.Equal(t, "2024/05/01", d.Value(0, "gtpFinishedDate"))
	require.Equal(t, "2023/01/01", d.Value(1, "gtpFinishedDate"))

	d.DropColumn("grtpFinishedDate")
	require.False(t, d.HasColumn("grtpFinishedDate"))
	require.Equal(t, []string{"gtpFinishedDate"}, d.Columns())
}

func TestReorderStandardFirst(t *testing.T) {
	d := New()
	d.Append(map[string]string{"zzzExtra": "x", "gtpNumber": "GTP-1", "program": "E2"})

	out := d.Reorder(GTPColumnOrder)
	cols := out.Columns()
	require.Equal(t, "program", cols[0])
	require.Equal(t, "gtpNumber", cols[1])
	require.Equal(t, "zzzExtra", cols[len(cols)-1])
	require.Len(t, cols, len(GTPColumnOrder)+1)
	require.Equal(t, "x", out.Value(0, "zzzExtra"))
}

func TestReorderNilKeepsColumns(t *testing.T) {
	d := New()
	d.Append(map[string]string{"b": "2", "a": "1"})
	out := d.Reorder(nil)
	require.Equal(t, d.Columns(), out.Columns())
}

func TestCheckSubmittal(t *testing.T) {
	d := New()
	d.Append(map[string]string{"dtrStatus": "Submitted", "submittalDate": ""})
	d.Append(map[string]string{"dtrStatus": "Approved", "submittalDate": "2024/01/01"})
	d.Append(map[string]string{"dtrStatus": "Draft", "submittalDate": ""})

	marked := d.CheckSubmittal("submittalDate")
	require.Equal(t, 1, marked)
	require.Contains(t, d.Value(0, "errorMsg"), "submittalDate empty")
	require.Equal(t, "", d.Value(1, "errorMsg"))
	require.Equal(t, "", d.Value(2, "errorMsg"))
}

func TestCheckSubmittalMissingColumns(t *testing.T) {
	d := New()
	d.Append(map[string]string{"program": "E2"})
	require.Equal(t, 0, d.CheckSubmittal("submittalDate"))
	require.False(t, d.HasColumn("errorMsg"))
}

func TestWriteCSV(t *testing.T) {
	d := New()
	d.Append(map[string]string{"program": "E2", "gtpNumber": "GTP-1"})
	d.Append(map[string]string{"program": "KC390", "gtpNumber": "GTP-2"})

	var buf bytes.Buffer
	require.NoError(t, d.WriteCSV(&buf))
	require.Equal(t, "gtpNumber,program\nGTP-1,E2\nGTP-2,KC390\n", buf.String())
}
