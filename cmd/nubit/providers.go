package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/crypto"
	"nubit-transcribe/backend/internal/llm"
)

var (
	providersCheck  bool
	providersFormat string
)

func newProvidersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect the configured LLM providers",
	}
	status := &cobra.Command{
		Use:   "status",
		Short: "Show API key status per provider",
		Args:  cobra.NoArgs,
		RunE:  runProvidersStatus,
	}
	status.Flags().BoolVar(&providersCheck, "check", false, "call each provider to confirm the key works")
	status.Flags().StringVarP(&providersFormat, "format", "f", "table", "output format: table, json, yaml")
	seal := &cobra.Command{
		Use:   "seal <api-key>",
		Short: "Encrypt an API key for the llm_providers table",
		Long: `Encrypt an API key with MASTER_KEY so it can be stored in the api_key
column of the llm_providers registry.`,
		Args: cobra.ExactArgs(1),
		RunE: runProvidersSeal,
	}
	cmd.AddCommand(status, seal)
	return cmd
}

func runProvidersSeal(cmd *cobra.Command, args []string) error {
	cfg := config.Load(envFile)
	sealed, err := crypto.Encrypt(cfg.MasterKey, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), sealed)
	return err
}

func runProvidersStatus(cmd *cobra.Command, args []string) error {
	e := loadEnv(cmd.Context(), cmd.ErrOrStderr())
	defer e.close()

	statuses := llm.KeyStatuses(e.cfg)
	if providersCheck {
		monitor := llm.NewHealthMonitor(e.router(), nil, e.logger, 0)
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		monitor.CheckOnce(ctx)
		cancel()
		statuses = monitor.Annotate(statuses)
	}

	out := cmd.OutOrStdout()
	switch providersFormat {
	case "json":
		return outputJSON(out, statuses)
	case "yaml":
		return outputYAML(out, statuses)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", providersFormat)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tMODEL\tKEY\tSTATUS\tLATENCY")
	for _, s := range statuses {
		latency := "-"
		if s.Health != nil {
			latency = s.Health.Latency.Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Provider, s.Model, valueOr(s.MaskedKey, "-"), s.Key, latency)
	}
	return tw.Flush()
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
