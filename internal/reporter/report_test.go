package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"api-batch-runner/internal/batch"
	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/executor"
)

func sampleResults() []batch.ResultRow {
	return []batch.ResultRow{
		{
			Index:    1,
			Input:    csvcodec.Row{"id": "7", "name": "Ann"},
			Status:   200,
			Result:   "PASS",
			Response: `{"ok":true}`,
		},
		{
			Index:    2,
			Input:    csvcodec.Row{"id": "8", "name": "Bob, Jr."},
			Status:   500,
			Result:   "FAIL",
			Response: "boom",
		},
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{OutputDir: dir})

	path, err := r.ExportCSV([]string{"id", "name"}, sampleResults())
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "test_results_") || !strings.HasSuffix(path, ".csv") {
		t.Errorf("export path = %q, want test_results_<date>.csv", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	headers, rows := csvcodec.Parse(string(data))
	wantHeaders := []string{"id", "name", "row", "status", "result", "response"}
	if len(headers) != len(wantHeaders) {
		t.Fatalf("export headers = %v, want %v", headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, headers[i], h)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("export has %d rows, want 2", len(rows))
	}
	if rows[1]["name"] != "Bob, Jr." {
		t.Errorf("comma-containing cell = %q, want lossless round-trip", rows[1]["name"])
	}
	if rows[0]["response"] != `{"ok":true}` || rows[0]["result"] != "PASS" {
		t.Errorf("row 1 = %v, want full response and PASS label", rows[0])
	}
}

func TestExportCSVNoResultsIsNoOp(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{OutputDir: dir})

	path, err := r.ExportCSV([]string{"id"}, nil)
	if err != nil || path != "" {
		t.Errorf("ExportCSV() = (%q, %v), want no-op", path, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("export wrote %d files for zero results", len(entries))
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{OutputDir: dir, Detailed: true})

	path, err := r.WriteJSON("GET /pets", sampleResults())
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Total != 2 || report.Passed != 1 || report.Failed != 1 {
		t.Errorf("report totals = %+v, want 2/1/1", report)
	}
	if report.RunID == "" {
		t.Error("report should carry a run id")
	}
	if len(report.Results) != 2 {
		t.Errorf("detailed report has %d results, want 2", len(report.Results))
	}
}

func TestRenderOutcomeTransportPanel(t *testing.T) {
	var buf bytes.Buffer
	r := New(Config{})

	r.RenderOutcome(&buf, executor.Outcome{
		Status:         0,
		Body:           "network failure, no response received",
		TransportError: true,
	})

	out := buf.String()
	if !strings.Contains(out, "TRANSPORT FAILURE") {
		t.Errorf("transport failure output = %q, want a distinct explanatory panel", out)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	r := New(Config{})
	r.RenderTable(&buf, sampleResults())

	out := buf.String()
	if !strings.Contains(out, "PASS") || !strings.Contains(out, "FAIL") {
		t.Errorf("table output = %q, want PASS and FAIL rows", out)
	}
}
