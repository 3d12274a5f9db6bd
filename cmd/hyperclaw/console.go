package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hyperclaw/internal/metrics"
	"github.com/Veraticus/hyperclaw/internal/push"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/tui"
)

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive trading console",
		Long: `Open the full-screen console. Each tab keeps its data fresh only
while it is shown:

  overview  account equity, open PnL and the strategy at a glance
  strategy  bias and auto-trading controls, derived strategies
  trade     the order ticket and recent orders
  review    swipe through past fills and mark them good or bad
  me        bind a wallet and approve the trading agent`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, _ := cmd.Flags().GetString("tab")
			return runConsole(cmd.Context(), tab)
		},
	}

	cmd.Flags().String("tab", screen.NameOverview, "initial tab ("+strings.Join(screen.Names, ", ")+")")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while the console runs")
	_ = viper.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

func runConsole(ctx context.Context, tab string) error {
	tab = strings.ToLower(strings.TrimSpace(tab))
	if !slices.Contains(screen.Names, tab) {
		return fmt.Errorf("unknown tab %q (choose from %s)", tab, strings.Join(screen.Names, ", "))
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	walletSigner, err := newSigner()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	console, err := tui.New(ctx,
		tui.WithBackend(client),
		tui.WithWallet(newWalletCache(client)),
		tui.WithSigner(walletSigner),
		tui.WithInitialTab(tab),
		tui.WithIntervals(intervals()),
		tui.WithReview(settings.Review.Tags, settings.Review.Limit, settings.Review.SwipeThreshold),
		tui.WithOrders(settings.Orders.Limit, orderDefaults()),
	)
	if err != nil {
		return err
	}

	var listener *push.Listener
	if url := settings.API.WSURL; url != "" {
		listener, err = push.NewListener(url, push.WithHeader(pushHeader()))
		if err != nil {
			return err
		}
		listener.Register(console)
	}

	// Background services only log their failures.
	g, gctx := errgroup.WithContext(ctx)
	if addr := settings.Metrics.Addr; addr != "" {
		g.Go(func() error {
			if err := metrics.Serve(gctx, addr); err != nil {
				slog.Error("Metrics server stopped", "addr", addr, "error", err)
			}
			return nil
		})
	}
	if listener != nil {
		g.Go(func() error {
			if err := listener.Run(gctx); err != nil {
				slog.Warn("Push listener stopped", "error", err)
			}
			return nil
		})
	}

	runErr := console.Run()
	cancel()
	_ = g.Wait()
	return runErr
}
