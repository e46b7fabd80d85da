package model

import "time"

// BatchStatus is the lifecycle state of a batch.
// pending -> processing -> completed; item failures never fail the batch.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
)

// ItemStatus is the lifecycle state of a single batch item.
// pending -> completed or pending -> failed, exactly once, no retries.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// ItemResult is the per-item score summary stored on a completed item.
type ItemResult struct {
	PlagiarismScore int `json:"plagarismScore"`
	AiScore         int `json:"aiScore"`
	OverallScore    int `json:"overallScore"`
}

// BatchItem is one submitted document inside a batch.
type BatchItem struct {
	ID       string      `json:"id"`
	Text     string      `json:"-"` // input text, not echoed in status responses
	Filename string      `json:"filename"`
	Status   ItemStatus  `json:"status"`
	Result   *ItemResult `json:"result"`
	Error    string      `json:"error,omitempty"`
}

// BatchSummary aggregates a completed batch.
// The 20-score threshold splitting plagiarized from clean matches the
// reporting threshold used by the dashboard.
type BatchSummary struct {
	AvgPlagiarismScore int `json:"avgPlagiarismScore"`
	AvgAiScore         int `json:"avgAiScore"`
	TotalPlagiarized   int `json:"totalPlagiarized"`
	TotalClean         int `json:"totalClean"`
	TotalProcessed     int `json:"totalProcessed"`
	FailedItems        int `json:"failedItems"`
}

// Batch is an asynchronous bulk-analysis job. A single runner goroutine is
// the only writer once processing starts; readers get copies via the store.
type Batch struct {
	ID             string        `json:"id"`
	OwnerID        string        `json:"-"`
	Status         BatchStatus   `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	CompletedAt    *time.Time    `json:"completedAt"`
	TotalItems     int           `json:"totalItems"`
	ProcessedItems int           `json:"processedItems"`
	Items          []BatchItem   `json:"items"`
	Summary        *BatchSummary `json:"summary"`
}

// Progress returns the completion percentage as a 0-100 integer.
func (b *Batch) Progress() int {
	if b.TotalItems == 0 {
		return 0
	}
	return int(float64(b.ProcessedItems) / float64(b.TotalItems) * 100)
}

// Clone returns a deep copy safe to hand to readers while the runner
// keeps mutating the original.
func (b *Batch) Clone() *Batch {
	c := *b
	c.Items = make([]BatchItem, len(b.Items))
	copy(c.Items, b.Items)
	for i := range c.Items {
		if c.Items[i].Result != nil {
			r := *c.Items[i].Result
			c.Items[i].Result = &r
		}
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	if b.Summary != nil {
		s := *b.Summary
		c.Summary = &s
	}
	return &c
}

// BatchStatusView is the polling response shape.
type BatchStatusView struct {
	ID             string        `json:"id"`
	Status         BatchStatus   `json:"status"`
	Progress       int           `json:"progress"`
	ProcessedItems int           `json:"processedItems"`
	TotalItems     int           `json:"totalItems"`
	Items          []BatchItem   `json:"items"`
	Summary        *BatchSummary `json:"summary"`
	CreatedAt      time.Time     `json:"createdAt"`
	CompletedAt    *time.Time    `json:"completedAt"`
}

// StatusView builds the polling response for a batch snapshot.
func (b *Batch) StatusView() BatchStatusView {
	return BatchStatusView{
		ID:             b.ID,
		Status:         b.Status,
		Progress:       b.Progress(),
		ProcessedItems: b.ProcessedItems,
		TotalItems:     b.TotalItems,
		Items:          b.Items,
		Summary:        b.Summary,
		CreatedAt:      b.CreatedAt,
		CompletedAt:    b.CompletedAt,
	}
}

// BatchListEntry is the minimal shape for a user's batch history list.
type BatchListEntry struct {
	ID             string        `json:"id"`
	Status         BatchStatus   `json:"status"`
	TotalItems     int           `json:"totalItems"`
	ProcessedItems int           `json:"processedItems"`
	CreatedAt      time.Time     `json:"createdAt"`
	CompletedAt    *time.Time    `json:"completedAt"`
	Summary        *BatchSummary `json:"summary"`
}

// ListEntry builds the history-list shape for a batch snapshot.
func (b *Batch) ListEntry() BatchListEntry {
	return BatchListEntry{
		ID:             b.ID,
		Status:         b.Status,
		TotalItems:     b.TotalItems,
		ProcessedItems: b.ProcessedItems,
		CreatedAt:      b.CreatedAt,
		CompletedAt:    b.CompletedAt,
		Summary:        b.Summary,
	}
}
