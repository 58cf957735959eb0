package batch

import (
	"context"
	"math"

	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/executor"
	"api-batch-runner/internal/spec"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResultRow pairs one input row with its execution outcome. The response
// body is carried in full, never truncated, since the result set is the
// exported record of truth.
type ResultRow struct {
	Index     int // 1-based input row index
	Input     csvcodec.Row
	Status    int
	Result    string // "PASS" or "FAIL"
	Response  string
	ElapsedMs int64
}

// Update is published after each row completes: the row itself, the
// accumulated result set so far, and the completion percentage.
type Update struct {
	Row       ResultRow
	Results   []ResultRow
	Completed int
	Total     int
	Percent   int
}

// Runner drives the executor sequentially over CSV-derived rows
type Runner struct {
	exec *executor.Executor
	log  *zap.Logger
}

// New creates a batch runner over an executor
func New(exec *executor.Executor, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{exec: exec, log: log}
}

// Run executes the endpoint once per row, strictly in input order, and
// publishes one Update per completed row on the returned channel. Row
// N+1 is not started until row N is fully resolved. A failing row never
// aborts the run; canceling the context stops the run between rows and
// closes the channel early. The channel is closed after the last row.
func (r *Runner) Run(ctx context.Context, endpoint spec.Endpoint, rows []csvcodec.Row) <-chan Update {
	updates := make(chan Update)
	runID := uuid.NewString()
	r.log.Info("starting batch run",
		zap.String("run_id", runID),
		zap.String("endpoint", endpoint.ID),
		zap.Int("rows", len(rows)))

	go func() {
		defer close(updates)
		results := make([]ResultRow, 0, len(rows))

		for i, row := range rows {
			select {
			case <-ctx.Done():
				r.log.Warn("batch run canceled",
					zap.String("run_id", runID),
					zap.Int("completed", len(results)))
				return
			default:
			}

			outcome := r.exec.Execute(ctx, endpoint, row)
			result := ResultRow{
				Index:     i + 1,
				Input:     row,
				Status:    outcome.Status,
				Result:    label(outcome.Success),
				Response:  outcome.BodyText(),
				ElapsedMs: outcome.ElapsedMs,
			}
			results = append(results, result)

			updates <- Update{
				Row:       result,
				Results:   results,
				Completed: i + 1,
				Total:     len(rows),
				Percent:   percent(i+1, len(rows)),
			}
		}

		r.log.Info("batch run finished",
			zap.String("run_id", runID),
			zap.Int("rows", len(results)))
	}()

	return updates
}

func label(success bool) string {
	if success {
		return "PASS"
	}
	return "FAIL"
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
