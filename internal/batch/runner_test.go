package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/plagzap/plagzap/internal/model"
)

type fakePipeline struct {
	failOn map[string]bool // substring of text -> fail
	result model.ItemResult
}

func (p *fakePipeline) AnalyzeItem(ctx context.Context, text string) (model.ItemResult, error) {
	if strings.TrimSpace(text) == "" {
		return model.ItemResult{}, errors.New("text is required")
	}
	for substr := range p.failOn {
		if strings.Contains(text, substr) {
			return model.ItemResult{}, errors.New("analysis failed")
		}
	}
	return p.result, nil
}

func newTestRunner(pipeline Pipeline) (*Runner, Store) {
	store := NewMemoryStore(time.Hour)
	cfg := model.DefaultConfig().Batch
	r := NewRunner(store, pipeline, cfg, zerolog.Nop(),
		WithItemLimiter(rate.NewLimiter(rate.Inf, 1)))
	r.Start()
	return r, store
}

func waitForBatch(t *testing.T, r *Runner, id string) {
	t.Helper()
	select {
	case got := <-r.Completions():
		if got != id {
			t.Fatalf("Completed batch %s, expected %s", got, id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for batch completion")
	}
}

func TestSubmit_Validation(t *testing.T) {
	r, _ := newTestRunner(&fakePipeline{})
	defer r.Shutdown()

	if _, err := r.Submit("user1", nil, nil); err == nil {
		t.Error("Expected error for empty text list")
	}

	texts := make([]string, 11)
	for i := range texts {
		texts[i] = "text"
	}
	if _, err := r.Submit("user1", texts, nil); err == nil {
		t.Error("Expected error for more than 10 texts")
	}
}

func TestSubmit_CreatesPendingBatch(t *testing.T) {
	r, store := newTestRunner(&fakePipeline{})
	defer r.Shutdown()

	b, err := r.Submit("user1", []string{"first document text", "second document text"}, []string{"a.txt"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if b.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", b.TotalItems)
	}
	if b.Items[0].Filename != "a.txt" {
		t.Errorf("Filename = %q, want a.txt", b.Items[0].Filename)
	}
	if b.Items[1].Filename != "Document 2" {
		t.Errorf("Filename = %q, want Document 2", b.Items[1].Filename)
	}
	if b.Items[0].ID != b.ID+"-0" || b.Items[1].ID != b.ID+"-1" {
		t.Errorf("Unexpected item ids: %s, %s", b.Items[0].ID, b.Items[1].ID)
	}

	if _, ok := store.Get(b.ID); !ok {
		t.Error("Submitted batch not found in store")
	}
	waitForBatch(t, r, b.ID)
}

func TestSubmit_ReturnsSnapshotNotLivePointer(t *testing.T) {
	pipeline := &fakePipeline{result: model.ItemResult{PlagiarismScore: 5}}
	r, store := newTestRunner(pipeline)
	defer r.Shutdown()

	b, err := r.Submit("user1", []string{"doc one text", "doc two text"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The worker mutates the stored batch concurrently; reading the
	// returned one must be race-free because it is a detached snapshot.
	for i := 0; i < 100; i++ {
		_ = b.Status
		_ = b.ProcessedItems
		_ = b.Items[0].Status
	}
	waitForBatch(t, r, b.ID)

	if b.Status != model.BatchPending || b.ProcessedItems != 0 {
		t.Errorf("Returned batch changed under the caller: status %s, processed %d", b.Status, b.ProcessedItems)
	}
	got, _ := store.Get(b.ID)
	if got.Status != model.BatchCompleted {
		t.Errorf("Stored batch status = %s, want completed", got.Status)
	}
}

func TestSubmit_TruncatesLongTexts(t *testing.T) {
	r, store := newTestRunner(&fakePipeline{})
	defer r.Shutdown()

	long := strings.Repeat("a", 20000)
	b, err := r.Submit("user1", []string{long}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForBatch(t, r, b.ID)

	got, _ := store.Get(b.ID)
	if len(got.Items[0].Text) != 10000 {
		t.Errorf("Text length = %d, want 10000", len(got.Items[0].Text))
	}
}

func TestRunner_ProcessesAllItems(t *testing.T) {
	pipeline := &fakePipeline{result: model.ItemResult{PlagiarismScore: 40, AiScore: 60, OverallScore: 50}}
	r, store := newTestRunner(pipeline)
	defer r.Shutdown()

	b, err := r.Submit("user1", []string{"doc one text", "doc two text", "doc three text"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForBatch(t, r, b.ID)

	got, _ := store.Get(b.ID)
	if got.Status != model.BatchCompleted {
		t.Fatalf("Status = %s, want completed", got.Status)
	}
	if got.ProcessedItems != 3 {
		t.Errorf("ProcessedItems = %d, want 3", got.ProcessedItems)
	}
	if got.Progress() != 100 {
		t.Errorf("Progress = %d, want 100", got.Progress())
	}
	if got.CompletedAt == nil {
		t.Error("Expected CompletedAt to be set")
	}
	for _, item := range got.Items {
		if item.Status != model.ItemCompleted {
			t.Errorf("Item %s status = %s, want completed", item.ID, item.Status)
		}
		if item.Result == nil || item.Result.PlagiarismScore != 40 {
			t.Errorf("Item %s missing result: %+v", item.ID, item.Result)
		}
	}

	summary := got.Summary
	if summary == nil {
		t.Fatal("Expected a summary on the completed batch")
	}
	if summary.TotalProcessed != 3 || summary.FailedItems != 0 {
		t.Errorf("Summary counts: %+v", summary)
	}
	if summary.AvgPlagiarismScore != 40 || summary.AvgAiScore != 60 {
		t.Errorf("Summary averages: %+v", summary)
	}
	if summary.TotalPlagiarized != 3 || summary.TotalClean != 0 {
		t.Errorf("Summary split: %+v", summary)
	}
}

func TestRunner_ItemFailureIsIsolated(t *testing.T) {
	pipeline := &fakePipeline{
		failOn: map[string]bool{"poison": true},
		result: model.ItemResult{PlagiarismScore: 10, AiScore: 20, OverallScore: 15},
	}
	r, store := newTestRunner(pipeline)
	defer r.Shutdown()

	b, err := r.Submit("user1", []string{"clean document", "poison document", "another clean one"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForBatch(t, r, b.ID)

	got, _ := store.Get(b.ID)
	if got.Status != model.BatchCompleted {
		t.Fatalf("One failed item must not fail the batch, status = %s", got.Status)
	}
	if got.ProcessedItems != 3 {
		t.Errorf("ProcessedItems = %d, want 3", got.ProcessedItems)
	}

	failed := got.Items[1]
	if failed.Status != model.ItemFailed {
		t.Errorf("Item 1 status = %s, want failed", failed.Status)
	}
	if failed.Error == "" {
		t.Error("Failed item should carry an error message")
	}
	if failed.Result != nil {
		t.Error("Failed item should have no result")
	}

	summary := got.Summary
	if summary == nil {
		t.Fatal("Expected a summary")
	}
	if summary.FailedItems != 1 || summary.TotalProcessed != 2 {
		t.Errorf("Summary counts: %+v", summary)
	}
	if summary.AvgPlagiarismScore != 10 || summary.TotalClean != 2 {
		t.Errorf("Summary scores: %+v", summary)
	}
}

func TestRunner_EmptyItemFails(t *testing.T) {
	r, store := newTestRunner(&fakePipeline{})
	defer r.Shutdown()

	// Whitespace-only text passes submission but fails per-item analysis.
	b, err := r.Submit("user1", []string{"   "}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForBatch(t, r, b.ID)

	got, _ := store.Get(b.ID)
	if got.Items[0].Status != model.ItemFailed {
		t.Errorf("Item status = %s, want failed", got.Items[0].Status)
	}
	if got.Summary == nil || got.Summary.FailedItems != 1 {
		t.Errorf("Summary: %+v", got.Summary)
	}
}
