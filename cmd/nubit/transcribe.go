package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/transcribe"
)

var (
	transcribeLanguage string
	transcribeBackend  string
	transcribeAnalyze  bool
	transcribeMode     string
	transcribeFormat   string
	transcribeOut      string
)

func newTranscribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <media>",
		Short: "Transcribe an audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranscribe,
	}
	cmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "", "language code (default TRANSCRIBE_LANGUAGE)")
	cmd.Flags().StringVar(&transcribeBackend, "backend", "", "transcription backend: whisper, openai (default TRANSCRIBE_BACKEND)")
	cmd.Flags().BoolVar(&transcribeAnalyze, "analyze", false, "analyze the transcript afterwards")
	cmd.Flags().StringVarP(&transcribeMode, "mode", "m", "auto", "analysis mode when --analyze is set")
	cmd.Flags().StringVarP(&transcribeFormat, "format", "f", "markdown", "analysis output format: markdown, json, yaml")
	cmd.Flags().StringVarP(&transcribeOut, "output", "o", "", "also save the transcript to this file")
	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	e := loadEnv(cmd.Context(), cmd.ErrOrStderr())
	defer e.close()

	path := args[0]
	language := transcribeLanguage
	if language == "" {
		language = e.cfg.TranscribeLanguage
	}
	if err := transcribe.Validate(path, language); err != nil {
		return err
	}
	mode, err := llm.ParseMode(transcribeMode)
	if err != nil {
		return err
	}
	backend, err := transcribe.New(e.cfg, transcribeBackend)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	start := time.Now()
	transcript, err := backend.Transcribe(cmd.Context(), transcribe.Request{
		Filename: filepath.Base(path),
		Language: language,
		Body:     file,
	})
	if err != nil {
		return err
	}
	e.logger.Debug().Str("backend", backend.Name()).Dur("took", time.Since(start)).Msg("transcribed")

	if transcribeOut != "" {
		if err := os.WriteFile(transcribeOut, []byte(transcript.Text), 0o644); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, transcript.Text); err != nil {
		return err
	}
	if !transcribeAnalyze {
		return nil
	}

	outcome, err := e.service().Analyze(cmd.Context(), transcript.Text, mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return writeOutcome(out, transcribeFormat, outcome)
}
