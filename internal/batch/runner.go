package batch

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/plagzap/plagzap/internal/model"
)

// Pipeline scores one batch item. Implemented by analyze.Analyzer.
type Pipeline interface {
	AnalyzeItem(ctx context.Context, text string) (model.ItemResult, error)
}

// Runner owns batch processing. Submitted batches are queued to a small
// worker pool; distinct batches may run concurrently, but the items inside
// one batch are always processed sequentially in submission order, paced
// by a rate limiter. There is no mid-batch cancellation: once a batch
// starts it runs to completion of all items.
type Runner struct {
	store    Store
	pipeline Pipeline
	cfg      model.BatchConfig
	limiter  *rate.Limiter
	log      zerolog.Logger

	jobs        chan string
	completions chan string
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewRunner creates a runner. The limiter paces consecutive items within
// a batch; tests inject rate.NewLimiter(rate.Inf, 1).
func NewRunner(store Store, pipeline Pipeline, cfg model.BatchConfig, log zerolog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:       store,
		pipeline:    pipeline,
		cfg:         cfg,
		limiter:     rate.NewLimiter(rate.Limit(cfg.ItemsPerSecond), 1),
		log:         log,
		jobs:        make(chan string, 64),
		completions: make(chan string, 64),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithItemLimiter replaces the inter-item rate limiter.
func WithItemLimiter(l *rate.Limiter) RunnerOption {
	return func(r *Runner) { r.limiter = l }
}

// Start launches the worker pool.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		workers := r.cfg.Workers
		if workers <= 0 {
			workers = 1
		}
		for i := 0; i < workers; i++ {
			r.wg.Add(1)
			go r.worker()
		}
	})
}

// Shutdown stops accepting new batches and waits for in-flight ones.
func (r *Runner) Shutdown() {
	r.stopOnce.Do(func() { close(r.jobs) })
	r.wg.Wait()
}

// Completions emits the id of each batch as it finishes; the channel is
// buffered and intended for tests and shutdown hooks, not as a contract.
func (r *Runner) Completions() <-chan string {
	return r.completions
}

// Submit validates the texts, creates the batch with all items pending,
// queues it for background processing and returns it immediately. The
// caller polls the store for progress.
func (r *Runner) Submit(ownerID string, texts []string, filenames []string) (*model.Batch, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts are required")
	}
	if len(texts) > r.cfg.MaxItems {
		return nil, fmt.Errorf("maximum %d texts per batch", r.cfg.MaxItems)
	}

	id := uuid.NewString()
	items := make([]model.BatchItem, len(texts))
	for i, t := range texts {
		if r.cfg.MaxTextLen > 0 && len(t) > r.cfg.MaxTextLen {
			t = t[:r.cfg.MaxTextLen]
		}
		filename := fmt.Sprintf("Document %d", i+1)
		if i < len(filenames) && strings.TrimSpace(filenames[i]) != "" {
			filename = filenames[i]
		}
		items[i] = model.BatchItem{
			ID:       fmt.Sprintf("%s-%d", id, i),
			Text:     t,
			Filename: filename,
			Status:   model.ItemPending,
		}
	}

	b := &model.Batch{
		ID:         id,
		OwnerID:    ownerID,
		Status:     model.BatchPending,
		CreatedAt:  time.Now().UTC(),
		TotalItems: len(items),
		Items:      items,
	}
	r.store.Put(b)

	select {
	case r.jobs <- id:
	default:
		// Queue full: run the batch inline on a dedicated goroutine
		// rather than dropping it.
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.process(id)
		}()
	}

	r.log.Info().Str("batch", id).Int("items", len(items)).Msg("batch submitted")

	// The worker mutates the stored batch as soon as it is enqueued, so the
	// caller gets a snapshot, never the live pointer.
	return b.Clone(), nil
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for id := range r.jobs {
		r.process(id)
	}
}

// process runs one batch to completion: items strictly sequential, each
// failure isolated to its item, summary computed when the last item lands.
func (r *Runner) process(id string) {
	ctx := context.Background()

	snapshot, ok := r.store.Get(id)
	if !ok {
		r.log.Warn().Str("batch", id).Msg("batch vanished before processing")
		return
	}

	r.store.Update(id, func(b *model.Batch) {
		b.Status = model.BatchProcessing
	})

	for i := range snapshot.Items {
		if err := r.limiter.Wait(ctx); err != nil {
			r.log.Warn().Err(err).Str("batch", id).Msg("item pacing interrupted")
		}

		result, err := r.pipeline.AnalyzeItem(ctx, snapshot.Items[i].Text)
		r.recordItem(id, i, result, err)
	}

	select {
	case r.completions <- id:
	default:
	}
	r.log.Info().Str("batch", id).Msg("batch completed")
}

// recordItem writes one item's outcome and completes the batch when the
// last item reaches a terminal state.
func (r *Runner) recordItem(id string, index int, result model.ItemResult, err error) {
	r.store.Update(id, func(b *model.Batch) {
		item := &b.Items[index]
		if err != nil {
			item.Status = model.ItemFailed
			item.Error = err.Error()
		} else {
			item.Status = model.ItemCompleted
			res := result
			item.Result = &res
		}

		processed := 0
		for _, it := range b.Items {
			if it.Status == model.ItemCompleted || it.Status == model.ItemFailed {
				processed++
			}
		}
		b.ProcessedItems = processed

		if processed == b.TotalItems {
			now := time.Now().UTC()
			b.Status = model.BatchCompleted
			b.CompletedAt = &now
			b.Summary = summarize(b)
		}
	})
}

// summaryThreshold splits plagiarized from clean items in the summary;
// it is a reporting threshold, distinct from the per-chunk similarity one.
const summaryThreshold = 20

func summarize(b *model.Batch) *model.BatchSummary {
	summary := &model.BatchSummary{}

	var plagSum, aiSum int
	for _, item := range b.Items {
		if item.Status == model.ItemFailed {
			summary.FailedItems++
			continue
		}
		if item.Result == nil {
			continue
		}
		summary.TotalProcessed++
		plagSum += item.Result.PlagiarismScore
		aiSum += item.Result.AiScore
		if item.Result.PlagiarismScore > summaryThreshold {
			summary.TotalPlagiarized++
		} else {
			summary.TotalClean++
		}
	}

	if summary.TotalProcessed > 0 {
		summary.AvgPlagiarismScore = int(math.Round(float64(plagSum) / float64(summary.TotalProcessed)))
		summary.AvgAiScore = int(math.Round(float64(aiSum) / float64(summary.TotalProcessed)))
	}
	return summary
}
