package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/app/archive"
	"newsdigest/app/database"
	"newsdigest/app/pipeline"
)

// CompileDigestTask runs one pipeline cycle for a source and records the
// outcome in the run history.
type CompileDigestTask struct {
	Task
	pipeline *pipeline.Pipeline
	runRepo  *database.RunRepository
}

func NewCompileDigestTask(sourceName string, p *pipeline.Pipeline, runRepo *database.RunRepository) *CompileDigestTask {
	return &CompileDigestTask{
		Task:     NewTask(TaskTypeCompileDigest, sourceName),
		pipeline: p,
		runRepo:  runRepo,
	}
}

func (t *CompileDigestTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	now := time.Now()

	run, err := t.runRepo.CreateRun(t.SourceName, t.pipeline.ReferenceDate(now).String())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	summary, err := t.pipeline.Run(ctx, now)
	if err != nil {
		run.Status = database.RunStatusFailed
		run.Error = err.Error()
		if finishErr := t.runRepo.FinishRun(run); finishErr != nil {
			slog.Error("Failed to record run failure", "run_id", run.ID, "error", finishErr)
		}

		// A corrupt store cannot be fixed by running again.
		if errors.Is(err, archive.ErrStoreCorrupt) {
			return &PermanentError{Err: err}
		}
		return err
	}

	run.Status = database.RunStatusSucceeded
	run.Discovered = summary.Discovered
	run.Extracted = summary.Extracted
	run.Failed = summary.Failed
	run.Added = summary.Added
	run.Superseded = summary.Superseded
	run.Expired = summary.Expired
	run.Archived = summary.Archived
	run.DigestPath = summary.DigestPath

	if err := t.runRepo.FinishRun(run); err != nil {
		return fmt.Errorf("failed to record run result: %w", err)
	}

	if len(summary.Failures) > 0 {
		runErrors := make([]database.RunError, 0, len(summary.Failures))
		for _, f := range summary.Failures {
			runErrors = append(runErrors, database.RunError{URL: f.URL, Stage: f.Stage, Message: f.Message})
		}
		if err := t.runRepo.RecordErrors(run.ID, runErrors); err != nil {
			slog.Warn("Failed to record run errors", "run_id", run.ID, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", "CompileDigest",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"discovered", summary.Discovered,
		"extracted", summary.Extracted,
		"failed", summary.Failed,
		"added", summary.Added,
		"superseded", summary.Superseded,
		"expired", summary.Expired,
		"archived", summary.Archived,
		"digest", summary.DigestPath)

	return nil
}
