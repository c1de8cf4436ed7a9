package tasks

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeCompileDigest, "example")

	if task.GetID() == "" {
		t.Error("Expected a task ID to be assigned")
	}
	if task.GetType() != TaskTypeCompileDigest {
		t.Errorf("Expected type %q, got %q", TaskTypeCompileDigest, task.GetType())
	}
	if task.GetSourceName() != "example" {
		t.Errorf("Expected source %q, got %q", "example", task.GetSourceName())
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected retry count 0, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}
	if task.GetDuration() != 0 {
		t.Errorf("Expected zero duration before start, got %v", task.GetDuration())
	}
}

func TestTaskRetry(t *testing.T) {
	task := NewTask(TaskTypeCompileDigest, "example")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected task to be retryable at retry count %d", task.GetRetryCount())
		}
		task.IncrementRetryCount()
	}

	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
	if task.CanRetry() {
		t.Error("Expected task not to be retryable after maximum retries")
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeCompileDigest, "example")

	task.Start()
	time.Sleep(10 * time.Millisecond)

	if task.GetDuration() < 10*time.Millisecond {
		t.Errorf("Expected a duration of at least 10ms, got %v", task.GetDuration())
	}
}

func TestPermanentError(t *testing.T) {
	cause := errors.New("article store is corrupt")
	wrapped := fmt.Errorf("run failed: %w", &PermanentError{Err: cause})

	var permanent *PermanentError
	if !errors.As(wrapped, &permanent) {
		t.Fatal("Expected to find a PermanentError in the chain")
	}
	if permanent.Error() != "article store is corrupt" {
		t.Errorf("Unexpected error message: %q", permanent.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected the cause to stay reachable through Unwrap")
	}
}
