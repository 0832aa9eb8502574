package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classifier over HTTP",
	Long: `Serve exposes the interpreter as a JSON API:

  POST /api/v1/classify        {"audio": "...", "text": "..."}
  POST /api/v1/transcriptions  multipart upload (field "file")
  GET  /api/v1/catalog         command table
  GET  /health, /metrics

Example:
  railvoice serve --addr :8080 --asr vosk`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s (engine: %s)\n", cfg.Server.Addr, cfg.ASR.Provider)
	logger.Info("serving", zap.String("addr", cfg.Server.Addr))

	srv := server.New(cfg.Server, p, logger)
	srv.SetLimiter(newLimiter(cfg), cfg.ASR.Provider)
	return srv.Run(ctx)
}
