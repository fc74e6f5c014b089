package services

import (
	"context"
	"testing"
)

func TestTaskTypeStudentImport_Constant(t *testing.T) {
	if TaskTypeStudentImport != "student:import" {
		t.Errorf("TaskTypeStudentImport = %q, expected %q", TaskTypeStudentImport, "student:import")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	if err := queue.Close(); err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &ImportTask{Rows: []ImportRow{{ExamNo: "A0001"}}}

	if err := queue.Enqueue(task); err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_ProcessesTask(t *testing.T) {
	queue := NewSyncQueue()
	done := make(chan *ImportTask, 1)
	queue.SetProcessor(func(ctx context.Context, task *ImportTask) error {
		done <- task
		return nil
	})

	task := &ImportTask{Rows: []ImportRow{{ExamNo: "A0001"}}, UploadedBy: 7}
	if err := queue.Enqueue(task); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	got := <-done
	if len(got.Rows) != 1 || got.Rows[0].ExamNo != "A0001" {
		t.Errorf("processor received %+v", got)
	}
	if got.UploadedBy != 7 {
		t.Errorf("UploadedBy = %d, expected 7", got.UploadedBy)
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}
