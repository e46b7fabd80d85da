package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/plagzap/plagzap/internal/batch"
	"github.com/plagzap/plagzap/internal/model"
)

var (
	batchUser    string
	batchJSON    bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Analyze multiple documents as one batch",
	Long: `Batch analyzes up to 10 documents in a single run:
- Each file becomes one batch item
- Items are processed sequentially with rate limiting between them
- A failed item never fails the batch
- Finishes with per-item scores and a batch summary

Example:
  plagzap batch essay1.txt essay2.txt
  plagzap batch papers/*.txt --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchUser, "user", "cli", "user identity for the batch")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print the final batch status as JSON")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	if len(args) > cfg.Batch.MaxItems {
		return fmt.Errorf("maximum %d files per batch, got %d", cfg.Batch.MaxItems, len(args))
	}

	texts := make([]string, len(args))
	filenames := make([]string, len(args))
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		texts[i] = string(data)
		filenames[i] = filepath.Base(path)
	}

	analyzer, err := buildAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	store := batch.NewMemoryStore(cfg.Batch.StoreTTL)
	runner := batch.NewRunner(store, analyzer, cfg.Batch, log)
	runner.Start()
	defer runner.Shutdown()

	b, err := runner.Submit(batchUser, texts, filenames)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Processing %d documents...\n", b.TotalItems)

	select {
	case <-runner.Completions():
	case <-time.After(batchTimeout):
		return fmt.Errorf("batch timed out after %v", batchTimeout)
	}

	final, ok := store.Get(b.ID)
	if !ok {
		return fmt.Errorf("batch %s disappeared from the store", b.ID)
	}

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(final.StatusView())
	}

	printBatch(final)
	return nil
}

func printBatch(b *model.Batch) {
	fmt.Printf("Batch %s: %s (%d/%d items)\n\n", b.ID, b.Status, b.ProcessedItems, b.TotalItems)

	for _, item := range b.Items {
		if item.Status == model.ItemFailed {
			fmt.Printf("  %-30s FAILED: %s\n", item.Filename, item.Error)
			continue
		}
		fmt.Printf("  %-30s plagiarism %3d  ai %3d  overall %3d\n",
			item.Filename, item.Result.PlagiarismScore, item.Result.AiScore, item.Result.OverallScore)
	}

	if s := b.Summary; s != nil {
		fmt.Printf("\nSummary: avg plagiarism %d, avg AI %d, %d plagiarized, %d clean, %d failed\n",
			s.AvgPlagiarismScore, s.AvgAiScore, s.TotalPlagiarized, s.TotalClean, s.FailedItems)
	}
}
