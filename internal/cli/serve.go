package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plagzap/plagzap/internal/batch"
	"github.com/plagzap/plagzap/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve starts the HTTP API:
  POST   /api/v1/analyze       single-document check
  POST   /api/v1/batches       submit a batch of up to 10 texts
  GET    /api/v1/batches       list the caller's batches
  GET    /api/v1/batches/{id}  poll batch progress
  DELETE /api/v1/batches/{id}  delete a finished batch

Caller identity comes from the X-API-User header; authentication itself
is expected to happen upstream.

Example:
  plagzap serve
  plagzap serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	analyzer, err := buildAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	store := batch.NewMemoryStore(cfg.Batch.StoreTTL)
	runner := batch.NewRunner(store, analyzer, cfg.Batch, log)
	runner.Start()

	srv := server.New(cfg.Server, analyzer, runner, store, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		runner.Shutdown()
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	runner.Shutdown()
	return nil
}
