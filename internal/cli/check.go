package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plagzap/plagzap/internal/model"
	"github.com/plagzap/plagzap/internal/scrape"
)

var (
	checkURL     string
	checkUser    string
	checkJSON    bool
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Analyze a single document for plagiarism and AI content",
	Long: `Check analyzes one document:
- Chunk the text and sample chunks as search queries
- Score candidate source snippets with overlap and n-gram similarity
- Score AI likelihood with the configured detector
- Combine both signals into an overall risk number

The document comes from a file argument, stdin, or a URL (--url),
in which case the page text is extracted first.

Example:
  plagzap check essay.txt
  cat essay.txt | plagzap check
  plagzap check --url https://example.com/article --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkURL, "url", "", "analyze the text content of a web page")
	checkCmd.Flags().StringVar(&checkUser, "user", "cli", "user identity for usage accounting")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the full result as JSON")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	input, err := readInput(ctx, cfg, args)
	if err != nil {
		return err
	}

	analyzer, err := buildAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, checkUser, input)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

// readInput resolves the document text from --url, a file argument, or stdin.
func readInput(ctx context.Context, cfg *model.Config, args []string) (string, error) {
	if checkURL != "" {
		scraper := scrape.NewScraper(cfg.Scrape)
		page, err := scraper.Extract(ctx, checkURL)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", checkURL, err)
		}
		return page.Text, nil
	}

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printResult(result *model.AnalysisResult) {
	fmt.Printf("Overall risk:      %d/100\n", result.OverallScore)
	fmt.Printf("Plagiarism score:  %d/100\n", result.PlagiarismScore)
	fmt.Printf("AI score:          %d/100 (%s)\n", result.AiScore, result.AiReason)
	fmt.Printf("Language:          %s\n", result.Language)
	fmt.Println()

	flagged := 0
	for _, h := range result.Highlights {
		if h.Type == model.HighlightPlagiarized {
			flagged++
		}
	}
	fmt.Printf("Chunks: %d total, %d flagged\n", len(result.Highlights), flagged)

	if len(result.Matches) > 0 {
		fmt.Println("\nMatched sources:")
		for _, m := range result.Matches {
			fmt.Printf("  - %s\n    %s\n", m.Title, m.URL)
		}
	}

	if len(result.Gamification.NewBadges) > 0 {
		fmt.Printf("\nNew badges: %v\n", result.Gamification.NewBadges)
	}
	fmt.Printf("\nUsage: %d remaining of %d\n", result.Usage.Remaining, result.Usage.Limit)
}
