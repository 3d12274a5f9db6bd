package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
)

func strategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Inspect and control the automated strategy",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the strategy runtime status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runStrategyStatus(cmd.Context(), cmd.OutOrStdout(), client, asJSON)
		},
	}
	status.Flags().Bool("json", false, "print raw JSON")

	bias := &cobra.Command{
		Use:       "bias <Long|Short|Hybrid>",
		Short:     "Set the strategy bias",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"Long", "Short", "Hybrid"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runSetBias(cmd.Context(), cmd.OutOrStdout(), client, args[0])
		},
	}

	auto := &cobra.Command{
		Use:       "auto <on|off>",
		Short:     "Switch auto-trading on or off",
		Long:      "Switch auto-trading on or off. Switching on requires a bound wallet with an approved agent.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runSetAuto(cmd.Context(), cmd.OutOrStdout(), client, newWalletCache(client), args[0])
		},
	}

	cmd.AddCommand(status, bias, auto)
	return cmd
}

func runStrategyStatus(ctx context.Context, w io.Writer, backend service.StrategyBackend, asJSON bool) error {
	status, err := backend.StrategyStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to load strategy status: %w", err)
	}

	if asJSON {
		return writeJSON(w, status)
	}

	fmt.Fprintln(w, cli.FormatTitle("Strategy"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Bias\t%s\n", status.Bias)
	fmt.Fprintf(tw, "Runtime\t%s\n", orDash(status.RuntimeStatus))
	fmt.Fprintf(tw, "Auto-trading\t%s\n", onOff(status.AutoTrading))
	fmt.Fprintf(tw, "Last signal\t%s\n", orDash(status.LastSignal))
	fmt.Fprintf(tw, "Last error\t%s\n", orDash(status.LastError))
	fmt.Fprintf(tw, "Updated\t%s\n", formatTime(status.UpdatedAt))
	return tw.Flush()
}

func runSetBias(ctx context.Context, w io.Writer, backend service.StrategyBackend, raw string) error {
	bias, err := model.ParseBias(raw)
	if err != nil {
		return common.ValidationError(err.Error())
	}
	if err := backend.SetBias(ctx, bias); err != nil {
		return err
	}
	fmt.Fprintln(w, cli.FormatSuccess("Bias set to "+string(bias)))
	return nil
}

func runSetAuto(ctx context.Context, w io.Writer, backend service.StrategyBackend, wallet *session.Cache, raw string) error {
	var enable bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "enable":
		enable = true
	case "off", "false", "disable":
	default:
		return common.ValidationError(fmt.Sprintf("auto-trading must be on or off, got %q", raw))
	}

	if enable {
		s, err := wallet.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load wallet session: %w", err)
		}
		if err := gate.CheckAutoTrading(s, true); err != nil {
			return err
		}
	}

	if err := backend.SetAutoTrading(ctx, enable); err != nil {
		return err
	}
	fmt.Fprintln(w, cli.FormatSuccess("Auto-trading "+onOff(enable)))
	return nil
}
