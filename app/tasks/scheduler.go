package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"newsdigest/app/cfg"
	"newsdigest/app/config"
	"newsdigest/app/database"
	"newsdigest/app/pipeline"
)

// A run fetches every discovered article, so it gets a generous ceiling.
const taskTimeout = 15 * time.Minute

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceConfigs map[string]*config.SourceConfig
	pipelines     map[string]*pipeline.Pipeline
	runRepo       *database.RunRepository
	interval      time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(sourceConfigs map[string]*config.SourceConfig, pipelines map[string]*pipeline.Pipeline,
	runRepo *database.RunRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceConfigs: sourceConfigs,
		pipelines:     pipelines,
		runRepo:       runRepo,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	// A single worker serializes runs; each article store has exactly one
	// writer this way.
	s.wg.Add(1)
	go s.worker(0)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueDueTasks() {
	if len(s.sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	names := make([]string, 0, len(s.sourceConfigs))
	for name := range s.sourceConfigs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sourceConfig := s.sourceConfigs[name]
		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping CompileDigestTask", "source", name)
			continue
		}

		p, ok := s.pipelines[name]
		if !ok {
			slog.Warn("No pipeline for source, skipping", "source", name)
			continue
		}

		due, err := s.isDue(name, sourceConfig, p)
		if err != nil {
			slog.Warn("Failed to check run history, skipping", "source", name, "error", err)
			continue
		}
		if !due {
			continue
		}

		task := NewCompileDigestTask(name, p, s.runRepo)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue CompileDigestTask", "source", name, "error", err)
		}
	}
}

// isDue reports whether a source should run now: at most one successful run
// per reference date, with a cooldown between attempts after a failure.
func (s *Scheduler) isDue(name string, sourceConfig *config.SourceConfig, p *pipeline.Pipeline) (bool, error) {
	referenceDate := p.ReferenceDate(time.Now()).String()

	succeeded, err := s.runRepo.HasSuccessfulRun(name, referenceDate)
	if err != nil {
		return false, err
	}
	if succeeded {
		slog.Debug("Source already compiled, skipping", "source", name, "reference_date", referenceDate)
		return false, nil
	}

	last, err := s.runRepo.GetLastRun(name, referenceDate)
	if err != nil {
		return false, err
	}
	if last != nil && time.Since(last.StartedAt) < sourceConfig.Settings.GetRefreshInterval() {
		slog.Debug("Source attempted recently, waiting", "source", name, "reference_date", referenceDate, "last_attempt", last.StartedAt)
		return false, nil
	}

	return true, nil
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		var permanent *PermanentError
		if errors.As(err, &permanent) {
			slog.Error("Task failed permanently, not retrying", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceName(), "error", err)
			return
		}

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
