package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpavlovic/racuni/internal/barcode"
	"github.com/mpavlovic/racuni/internal/config"
	"github.com/mpavlovic/racuni/internal/drive"
	"github.com/mpavlovic/racuni/internal/gmail"
	"github.com/mpavlovic/racuni/internal/google"
	"github.com/mpavlovic/racuni/internal/instrumentation"
	"github.com/mpavlovic/racuni/internal/logging"
	"github.com/mpavlovic/racuni/internal/pdf"
	"github.com/mpavlovic/racuni/internal/pipeline"
	"github.com/mpavlovic/racuni/internal/state"
	"github.com/mpavlovic/racuni/internal/workday"
)

func newRunCmd() *cobra.Command {
	var gated bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process new invoice mails once and exit",
		Long: `Run one pass of the invoice pipeline: search for mails from the configured
sender within the trailing window, archive each PDF attachment to Drive,
extract the payment barcode and mail a summary to the account owner.

With --gated the pass only runs on the configured working day of the month
(a scheduler can then simply trigger the command every day).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if gated && !workday.IsNth(time.Now(), cfg.GateDay) {
				slog.Info("gate closed, nothing to do",
					"gate_day", cfg.GateDay,
					"working_day", workday.OfMonth(time.Now()))
				return nil
			}

			return runPipeline(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&gated, "gated", false, "Only run on the configured working day of the month")
	return cmd
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	recorder, err := instrumentation.NewRecorder(instrumentation.Config{
		Enabled:        cfg.MetricsEnabled,
		ServiceName:    "racuni",
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown", logging.Err(err))
		}
	}()

	conf := google.OAuthConfig(cfg.ClientID, cfg.ClientSecret)
	tokens := google.NewTokenStore(cfg.TokenFile)
	creds, err := google.NewCredentials(ctx, conf, tokens)
	if errors.Is(err, google.ErrNoToken) {
		return fmt.Errorf("no stored token at %s; run `racuni auth` once to authorize", tokens.Path())
	}
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	httpClient := creds.HTTPClient(ctx)

	gmailClient, err := gmail.NewClient(ctx, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}
	driveClient, err := drive.NewClient(ctx, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create Drive client: %w", err)
	}
	store, err := state.NewFileStore(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("failed to open state file: %w", err)
	}

	p := pipeline.New(pipeline.Deps{
		Mail:    gmailClient,
		Archive: driveClient,
		Render:  pdf.NewRenderer(),
		Scan:    barcode.NewScanner(),
		Store:   store,
		Metrics: recorder,
		Logger:  slog.Default(),
	}, pipeline.Options{
		Sender:      cfg.Sender,
		SinceDays:   cfg.SinceDays,
		DriveFolder: cfg.DriveFolder,
		StepTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	_, runErr := p.Run(ctx)

	// Google rotates refresh tokens occasionally; persist the pair the run
	// ended up with so the next unattended run still authenticates.
	if saved, err := creds.Persist(); err != nil {
		slog.Warn("failed to persist refreshed token", logging.Err(err))
	} else if saved {
		slog.Info("refreshed token persisted", "path", tokens.Path())
	}

	return runErr
}
