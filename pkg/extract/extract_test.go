package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/config"
	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/debugfiles"
)

func newTestClient(t *testing.T, serverURL string) *api.Client {
	t.Helper()
	client, err := api.NewClient(&config.Config{
		APIKey:     "test-key",
		DateIni:    "2010/01/01",
		DateEnd:    "2025/12/31",
		BaseURL:    serverURL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		PageSize:   2,
	})
	require.NoError(t, err)
	return client
}

func pageHandler(t *testing.T, recordsByProgram map[string][][]map[string]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		programID := extractFilterField(t, r.URL.Query().Get("filter"), "programID")
		page := r.URL.Query().Get("page")
		var pageNum int
		_, err := fmt.Sscanf(page, "%d", &pageNum)
		require.NoError(t, err)

		pages := recordsByProgram[programID]
		records := []map[string]string{}
		if pageNum <= len(pages) {
			records = pages[pageNum-1]
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"GTPs": records}))
	}
}

func extractFilterField(t *testing.T, filter, field string) string {
	t.Helper()
	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(filter), &parsed))
	return parsed[field]
}

func TestRunPaginatesUntilShortPage(t *testing.T) {
	// Page size is 2: two full pages then a short one.
	server := httptest.NewServer(pageHandler(t, map[string][][]map[string]string{
		"100": {
			{{"gtpNumber": "GTP-1"}, {"gtpNumber": "GTP-2"}},
			{{"gtpNumber": "GTP-3"}, {"gtpNumber": "GTP-4"}},
			{{"gtpNumber": "GTP-5"}},
		},
	}))
	defer server.Close()

	extractor := &Extractor{Client: newTestClient(t, server.URL), Debug: debugfiles.New(false)}
	d, stats, err := extractor.Run(context.Background(), api.SystemGTP, []api.Program{{ID: "100", Code: "E2"}})
	require.NoError(t, err)

	require.Equal(t, 5, d.Len())
	require.Equal(t, "GTP-5", d.Value(4, "gtpNumber"))
	require.Equal(t, 1, stats.Succeeded)
	require.Equal(t, 0, stats.Failed)
	require.Equal(t, 5, stats.Records)
}

func TestRunPreservesProgramOrder(t *testing.T) {
	server := httptest.NewServer(pageHandler(t, map[string][][]map[string]string{
		"1": {{{"gtpNumber": "A"}}},
		"2": {{{"gtpNumber": "B"}}},
		"3": {{{"gtpNumber": "C"}}},
	}))
	defer server.Close()

	extractor := &Extractor{
		Client:   newTestClient(t, server.URL),
		Debug:    debugfiles.New(false),
		Parallel: 3,
	}
	programs := []api.Program{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	d, stats, err := extractor.Run(context.Background(), api.SystemGTP, programs)
	require.NoError(t, err)

	require.Equal(t, 3, stats.Succeeded)
	require.Equal(t, []string{"A", "B", "C"}, []string{
		d.Value(0, "gtpNumber"),
		d.Value(1, "gtpNumber"),
		d.Value(2, "gtpNumber"),
	})
}

func TestRunCountsFailedProgramsWithoutAborting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		programID := extractFilterField(t, r.URL.Query().Get("filter"), "programID")
		if programID == "bad" {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"GTPs": []map[string]string{{"gtpNumber": "OK-1"}},
		}))
	}))
	defer server.Close()

	extractor := &Extractor{Client: newTestClient(t, server.URL), Debug: debugfiles.New(false)}
	programs := []api.Program{{ID: "good"}, {ID: "bad"}}
	d, stats, err := extractor.Run(context.Background(), api.SystemGTP, programs)
	require.NoError(t, err)

	require.Equal(t, 1, stats.Succeeded)
	require.Equal(t, 1, stats.Failed)
	require.Equal(t, 1, d.Len())
}

func TestRunEmptyProgramIsNeitherSuccessNorFailure(t *testing.T) {
	server := httptest.NewServer(pageHandler(t, map[string][][]map[string]string{}))
	defer server.Close()

	extractor := &Extractor{Client: newTestClient(t, server.URL), Debug: debugfiles.New(false)}
	d, stats, err := extractor.Run(context.Background(), api.SystemGTP, []api.Program{{ID: "empty"}})
	require.NoError(t, err)

	require.True(t, d.Empty())
	require.Equal(t, 0, stats.Succeeded)
	require.Equal(t, 0, stats.Failed)
}

func TestRunWritesDebugArtifacts(t *testing.T) {
	server := httptest.NewServer(pageHandler(t, map[string][][]map[string]string{
		"100": {{{"gtpNumber": "GTP-1"}}},
	}))
	defer server.Close()

	debug := debugfiles.New(true)
	debug.Root = t.TempDir()

	extractor := &Extractor{Client: newTestClient(t, server.URL), Debug: debug}
	_, _, err := extractor.Run(context.Background(), api.SystemGTP, []api.Program{{ID: "100"}})
	require.NoError(t, err)

	require.FileExists(t, debug.Root+"/GTP/url_000_page01_GTP.txt")
	require.FileExists(t, debug.Root+"/GTP/response_000_page01_GTP.json")
}

func TestStandardOrder(t *testing.T) {
	require.Equal(t, dataset.GTPColumnOrder, StandardOrder(api.SystemGTP))
	require.Equal(t, dataset.DTRColumnOrder, StandardOrder(api.SystemBDI))
	require.Equal(t, dataset.DTRColumnOrder, StandardOrder(api.SystemTechRep))
	require.Nil(t, StandardOrder(api.SystemSAR))
}

func TestSubmittalDateColumn(t *testing.T) {
	require.Equal(t, "submittalDate", SubmittalDateColumn(api.SystemGTP))
	require.Equal(t, "gtpSubmittalDate", SubmittalDateColumn(api.SystemBDI))
	require.Equal(t, "", SubmittalDateColumn(api.SystemSAR))
}
