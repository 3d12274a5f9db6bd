package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/service"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review recent fills as good or bad trades",
		Long: `Review recent fills one card at a time. Mark each fill good or bad,
optionally tagging it and adding a note. Verdicts are submitted as you go;
a failed submission keeps the card so you can try again.

By default the console opens on its review tab. Use --plain for a
line-oriented prompt that works over any terminal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, _ := cmd.Flags().GetBool("plain")
			if !plain {
				return runConsole(cmd.Context(), screen.NameReview)
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			return runPlainReview(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client)
		},
	}
	cmd.Flags().Bool("plain", false, "use the line-oriented prompt instead of the console")
	return cmd
}

func runPlainReview(ctx context.Context, in io.Reader, out io.Writer, backend service.Backend) error {
	var fills []model.Fill
	err := common.WithRetry(ctx, func() error {
		var err error
		fills, err = backend.Fills(ctx, settings.Review.Limit)
		return err
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	})
	if err != nil {
		return fmt.Errorf("failed to load fills: %w", err)
	}

	s := review.NewSession(fills, backend, review.WithThreshold(settings.Review.SwipeThreshold))

	handler := cli.NewInterruptHandler(out, func() int { return s.Stats().Reviewed() })
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = handler.HandleInterrupts(ctx)

	prompter := cli.NewPrompter(in, out, settings.Review.Tags)
	stats, err := prompter.Run(ctx, s)
	if err != nil {
		if cli.IsQuit(err) || handler.WasInterrupted() {
			slog.Info("Review stopped", "reviewed", stats.Reviewed(), "total", stats.Total)
			return nil
		}
		return err
	}

	slog.Info("Review finished",
		"good", stats.Good,
		"bad", stats.Bad,
		"failed", stats.Failed,
		"duration", stats.Duration)
	return nil
}
