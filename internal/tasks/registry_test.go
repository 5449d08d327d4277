package tasks

import (
	"fmt"
	"sync"
	"testing"
)

func TestLifecycle(t *testing.T) {
	registry := NewRegistry()

	task := registry.Create()
	if task.ID == "" {
		t.Fatalf("expected a task id")
	}

	if task.Status != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}

	registry.SetProgress(task.ID, 40)

	got, ok := registry.Get(task.ID)
	if !ok {
		t.Fatalf("task disappeared")
	}

	if got.Status != StatusProcessing || got.Progress != 40 {
		t.Fatalf("unexpected state: %+v", got)
	}

	registry.Complete(task.ID, map[string]any{"success": true})

	got, _ = registry.Get(task.ID)
	if got.Status != StatusCompleted || got.Progress != 100 {
		t.Fatalf("unexpected completed state: %+v", got)
	}

	if got.Result == nil {
		t.Fatalf("expected a result")
	}

	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("updated before created: %+v", got)
	}
}

func TestFail(t *testing.T) {
	registry := NewRegistry()

	task := registry.Create()
	registry.Fail(task.ID, "form not found")

	got, _ := registry.Get(task.ID)
	if got.Status != StatusError || got.Error != "form not found" {
		t.Fatalf("unexpected failed state: %+v", got)
	}
}

func TestProgressClamped(t *testing.T) {
	registry := NewRegistry()
	task := registry.Create()

	registry.SetProgress(task.ID, 150)
	if got, _ := registry.Get(task.ID); got.Progress != 100 {
		t.Fatalf("expected 100, got %d", got.Progress)
	}

	registry.SetProgress(task.ID, -5)
	if got, _ := registry.Get(task.ID); got.Progress != 0 {
		t.Fatalf("expected 0, got %d", got.Progress)
	}
}

func TestUnknownTask(t *testing.T) {
	registry := NewRegistry()

	if _, ok := registry.Get("nope"); ok {
		t.Fatalf("expected unknown task to be absent")
	}

	// Updates for unknown ids are silently dropped.
	registry.SetProgress("nope", 10)
	registry.Complete("nope", nil)
	registry.Fail("nope", "x")
}

func TestSnapshotIsolation(t *testing.T) {
	registry := NewRegistry()
	task := registry.Create()

	snapshot, _ := registry.Get(task.ID)
	snapshot.Status = StatusError
	snapshot.Progress = 99

	got, _ := registry.Get(task.ID)
	if got.Status != StatusPending || got.Progress != 0 {
		t.Fatalf("snapshot mutation leaked into the registry: %+v", got)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	ids := make([]string, 0, 20)

	for i := 0; i < 20; i++ {
		task := registry.Create()
		ids = append(ids, task.ID)
	}

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			registry.SetProgress(id, i*5)
			registry.Complete(id, fmt.Sprintf("result-%d", i))
		}(i, id)

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			registry.Get(id)
		}(id)
	}

	wg.Wait()

	for _, id := range ids {
		got, ok := registry.Get(id)
		if !ok || got.Status != StatusCompleted {
			t.Fatalf("task %s not completed: %+v", id, got)
		}
	}
}
