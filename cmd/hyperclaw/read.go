package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
)

const timeLayout = "2006-01-02 15:04"

// stateView is the --json shape of the state command.
type stateView struct {
	Account  model.AccountSnapshot `json:"account"`
	Strategy model.StrategyStatus  `json:"strategy"`
}

type stateBackend interface {
	service.AccountReader
	service.StrategyBackend
}

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show account equity and strategy status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runState(cmd.Context(), cmd.OutOrStdout(), client, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON")
	return cmd
}

func fillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fills",
		Short: "List recent fills, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runFills(cmd.Context(), cmd.OutOrStdout(), client, limit, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON")
	cmd.Flags().Int("limit", 20, "maximum number of fills")
	return cmd
}

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List recent orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runOrders(cmd.Context(), cmd.OutOrStdout(), client, limit, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON")
	cmd.Flags().Int("limit", 20, "maximum number of orders")
	return cmd
}

func derivesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derives",
		Short: "List strategies derived from the base strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runDerives(cmd.Context(), cmd.OutOrStdout(), client, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print raw JSON")
	return cmd
}

func runState(ctx context.Context, w io.Writer, backend stateBackend, asJSON bool) error {
	var view stateView

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := backend.AccountState(gctx)
		if err != nil {
			return fmt.Errorf("failed to load account state: %w", err)
		}
		view.Account = account
		return nil
	})
	g.Go(func() error {
		status, err := backend.StrategyStatus(gctx)
		if err != nil {
			return fmt.Errorf("failed to load strategy status: %w", err)
		}
		view.Strategy = status
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, view)
	}

	account := view.Account.State
	status := view.Strategy

	fmt.Fprintln(w, cli.FormatTitle("Account"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Equity\t%s\n", account.Equity.StringFixed(2))
	fmt.Fprintf(tw, "Open PnL\t%s\n", cli.FormatPnL(account.OpenPnL))
	fmt.Fprintf(tw, "Leverage\t%sx\n", account.Leverage.String())
	fmt.Fprintf(tw, "Updated\t%s\n", formatTime(account.UpdatedAt))
	fmt.Fprintf(tw, "\t\n")
	fmt.Fprintf(tw, "Bias\t%s\n", status.Bias)
	fmt.Fprintf(tw, "Runtime\t%s\n", status.RuntimeStatus)
	fmt.Fprintf(tw, "Auto-trading\t%s\n", onOff(status.AutoTrading))
	fmt.Fprintf(tw, "Last signal\t%s\n", orDash(status.LastSignal))
	if status.LastError != "" {
		fmt.Fprintf(tw, "Last error\t%s\n", status.LastError)
	}
	return tw.Flush()
}

func runFills(ctx context.Context, w io.Writer, backend service.FillReader, limit int, asJSON bool) error {
	fills, err := backend.Fills(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load fills: %w", err)
	}

	if asJSON {
		return writeJSON(w, fills)
	}
	if len(fills) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("No fills found."))
		return nil
	}

	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("Fills (%d)", len(fills))))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSYMBOL\tSIDE\tPRICE\tSIZE\tPNL\tSTATUS")
	for _, f := range fills {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID,
			formatTime(f.CreatedAt),
			f.Symbol,
			f.Side,
			f.Price.String(),
			f.Size.String(),
			f.RealizedPnL.StringFixed(2),
			orDash(f.Status),
		)
	}
	return tw.Flush()
}

func runOrders(ctx context.Context, w io.Writer, backend service.OrderBackend, limit int, asJSON bool) error {
	orders, err := backend.Orders(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	if asJSON {
		return writeJSON(w, orders)
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("No orders found."))
		return nil
	}

	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("Orders (%d)", len(orders))))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSYMBOL\tSIDE\tTYPE\tMODE\tSIZE\tENTRY\tSL\tTP\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			formatTime(o.CreatedAt),
			o.Symbol,
			o.Side,
			o.OrderType,
			o.Execution,
			o.Size.String(),
			o.EntryPrice.String(),
			o.StopLoss.String(),
			o.TakeProfit.String(),
			orDash(o.Status),
		)
	}
	return tw.Flush()
}

func runDerives(ctx context.Context, w io.Writer, backend service.StrategyBackend, asJSON bool) error {
	derives, err := backend.StrategyDerives(ctx)
	if err != nil {
		return fmt.Errorf("failed to load derived strategies: %w", err)
	}

	if asJSON {
		return writeJSON(w, derives)
	}
	if len(derives) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("No derived strategies found."))
		return nil
	}

	fmt.Fprintln(w, cli.FormatTitle("Derived strategies"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBASE\tCONDITION\tWIN\tPNL RATIO\tRECOMMENDATION")
	for _, d := range derives {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%.2f\t%s\n",
			d.Name,
			d.BaseStrategy,
			orDash(d.Condition),
			d.WinRate*100,
			d.PnLRatio,
			orDash(d.Recommendation),
		)
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
