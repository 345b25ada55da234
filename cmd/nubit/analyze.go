package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nubit-transcribe/backend/internal/llm"
)

var (
	analyzeFormat string
	analyzeMode   string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a transcript",
		Long: `Analyze a transcript read from a file, or from stdin when the argument is
"-" or missing.

Modes:
  local   heuristic analysis only, no network
  auto    remote LLM providers, falling back to local analysis
  remote  remote LLM providers only`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "markdown", "output format: markdown, json, yaml")
	cmd.Flags().StringVarP(&analyzeMode, "mode", "m", "local", "analysis mode: local, auto, remote")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := llm.ParseMode(analyzeMode)
	if err != nil {
		return err
	}
	text, err := readTranscript(cmd, args)
	if err != nil {
		return err
	}

	e := loadEnv(cmd.Context(), cmd.ErrOrStderr())
	defer e.close()

	outcome, err := e.service().Analyze(cmd.Context(), text, mode)
	if err != nil {
		return err
	}
	if outcome.FallbackReason != "" && mode == llm.ModeAuto {
		e.logger.Warn().Str("reason", outcome.FallbackReason).Msg("using local analysis")
	}
	return writeOutcome(cmd.OutOrStdout(), analyzeFormat, outcome)
}

func readTranscript(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
