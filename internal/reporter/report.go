package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"api-batch-runner/internal/batch"
	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/executor"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

// extra columns appended after the original CSV columns in every export
var resultColumns = []string{"row", "status", "result", "response"}

// Config holds the reporting configuration
type Config struct {
	Formats   []string
	OutputDir string
	Detailed  bool
}

// Report represents one batch run for the JSON report format
type Report struct {
	RunID     string            `json:"run_id"`
	Timestamp time.Time         `json:"timestamp"`
	Endpoint  string            `json:"endpoint"`
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Results   []batch.ResultRow `json:"results,omitempty"`
}

// Reporter renders batch results to the console and to export files
type Reporter struct {
	cfg Config
}

// New creates a new Reporter
func New(cfg Config) *Reporter {
	return &Reporter{cfg: cfg}
}

// ExportCSV writes the result table as delimited text, preserving every
// original CSV column in header order and appending the result columns.
// Exporting zero results is a no-op. Returns the written file path.
func (r *Reporter) ExportCSV(headers []string, results []batch.ResultRow) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	exportHeaders := append(append([]string(nil), headers...), resultColumns...)
	rows := make([]csvcodec.Row, 0, len(results))
	for _, result := range results {
		row := make(csvcodec.Row, len(exportHeaders))
		for _, header := range headers {
			row[header] = result.Input[header]
		}
		row["row"] = strconv.Itoa(result.Index)
		row["status"] = strconv.Itoa(result.Status)
		row["result"] = result.Result
		row["response"] = result.Response
		rows = append(rows, row)
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	path := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("test_results_%s.csv", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(csvcodec.Serialize(exportHeaders, rows)), 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV export: %v", err)
	}
	return path, nil
}

// WriteJSON writes a JSON run report with pass/fail totals. Per-row
// results are included only in detailed mode.
func (r *Reporter) WriteJSON(endpointID string, results []batch.ResultRow) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	report := Report{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Endpoint:  endpointID,
		Total:     len(results),
	}
	for _, result := range results {
		if result.Result == "PASS" {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	if r.cfg.Detailed {
		report.Results = results
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("report_%s.json", report.Timestamp.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON report: %v", err)
	}
	return path, nil
}

// RenderTable prints the per-row results as a console table. Responses
// are shortened here for readability; the CSV export is the untruncated
// record.
func (r *Reporter) RenderTable(w io.Writer, results []batch.ResultRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Row", "Result", "Status", "Time (ms)", "Response"})
	table.SetAutoWrapText(false)

	for _, result := range results {
		table.Append([]string{
			strconv.Itoa(result.Index),
			colorLabel(result.Result),
			strconv.Itoa(result.Status),
			strconv.FormatInt(result.ElapsedMs, 10),
			preview(result.Response, 60),
		})
	}
	table.Render()
}

// RenderOutcome prints a single manual-call outcome. Transport failures
// get a distinct explanatory panel so they are not mistaken for HTTP
// errors.
func (r *Reporter) RenderOutcome(w io.Writer, outcome executor.Outcome) {
	if outcome.TransportError {
		color.New(color.FgRed, color.Bold).Fprintln(w, "TRANSPORT FAILURE")
		fmt.Fprintln(w, "The request never received a response; the target may be unreachable")
		fmt.Fprintln(w, "or the host environment refused the connection.")
		fmt.Fprintf(w, "Detail: %s\n", outcome.BodyText())
		return
	}

	fmt.Fprintf(w, "%s  status=%d  time=%dms\n", colorLabel(label(outcome.Success)), outcome.Status, outcome.ElapsedMs)
	fmt.Fprintln(w, outcome.BodyText())
}

func label(success bool) string {
	if success {
		return "PASS"
	}
	return "FAIL"
}

func colorLabel(result string) string {
	if result == "PASS" {
		return color.GreenString(result)
	}
	return color.RedString(result)
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
