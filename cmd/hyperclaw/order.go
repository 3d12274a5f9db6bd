package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place orders",
	}

	place := &cobra.Command{
		Use:   "place",
		Short: "Place an order with attached stop-loss and take-profit",
		Long: `Place an order. Stop-loss and take-profit are sent in the same request
as the parent order. Unset flags fall back to the order defaults in the
config file. Requires a bound wallet with an approved agent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := orderDefaults()
			flags := map[string]*string{
				"symbol":    &form.Symbol,
				"side":      &form.Side,
				"type":      &form.OrderType,
				"execution": &form.Execution,
				"size":      &form.Size,
				"entry":     &form.EntryPrice,
				"sl":        &form.StopLoss,
				"tp":        &form.TakeProfit,
			}
			for name, dst := range flags {
				if cmd.Flags().Changed(name) {
					*dst, _ = cmd.Flags().GetString(name)
				}
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			return runPlaceOrder(cmd.Context(), cmd.OutOrStdout(), client, newWalletCache(client), form)
		},
	}
	place.Flags().String("symbol", "", "instrument symbol, e.g. BTC")
	place.Flags().String("side", "", "Buy or Sell")
	place.Flags().String("type", "", "market or limit")
	place.Flags().String("execution", "", "paper or live")
	place.Flags().String("size", "", "order size")
	place.Flags().String("entry", "", "entry price")
	place.Flags().String("sl", "", "stop-loss price")
	place.Flags().String("tp", "", "take-profit price")

	cmd.AddCommand(place)
	return cmd
}

func runPlaceOrder(ctx context.Context, w io.Writer, backend service.OrderBackend, wallet *session.Cache, form screen.OrderForm) error {
	s, err := wallet.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wallet session: %w", err)
	}
	if err := gate.CheckTrade(s); err != nil {
		return err
	}

	req, err := form.Request()
	if err != nil {
		return err
	}

	id, err := backend.PlaceOrder(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Order #%d placed: %s %s %s @ %s (%s)",
		id, req.Side, req.Size.String(), req.Symbol, req.EntryPrice.String(), req.Execution)))
	return nil
}
