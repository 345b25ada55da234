// Command nubit runs transcription and transcript analysis from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/db"
	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/logging"
)

var (
	envFile string
	debug   bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nubit",
		Short:         "Transcribe recordings and analyze transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newAnalyzeCommand(), newTranscribeCommand(), newProvidersCommand())
	return root
}

// env holds what every subcommand needs.
type env struct {
	cfg      config.Config
	logger   zerolog.Logger
	registry *db.Store
}

func loadEnv(ctx context.Context, stderr io.Writer) *env {
	cfg := config.Load(envFile)
	level := cfg.LogLevel
	if debug {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	e := &env{
		cfg:    cfg,
		logger: logging.New(logging.Options{Level: level, Format: "console", Output: stderr}),
	}
	if cfg.DatabaseURL != "" {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			e.logger.Warn().Err(err).Msg("provider registry unavailable")
		} else {
			e.registry = store
		}
	}
	return e
}

func (e *env) close() {
	if e.registry != nil {
		e.registry.Close()
	}
}

func (e *env) router() *llm.Router {
	return llm.NewRouter(llm.NewFactory(), llm.NewProviderStore(e.cfg, e.registry))
}

func (e *env) service() *llm.Service {
	return llm.NewService(e.router(), nil, nil, e.logger)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeOutcome prints an analysis in the requested format.
func writeOutcome(w io.Writer, format string, outcome *llm.Outcome) error {
	switch format {
	case "json":
		return outputJSON(w, outcome)
	case "yaml":
		return outputYAML(w, outcome)
	case "markdown", "md", "":
		_, err := fmt.Fprintln(w, outcome.Text)
		return err
	default:
		return fmt.Errorf("unknown format %q (want markdown, json or yaml)", format)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
