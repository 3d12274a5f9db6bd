package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/signer"
)

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect and bind the wallet session",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the bound wallet and agent approval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			client, err := newClient()
			if err != nil {
				return err
			}
			return runWalletStatus(cmd.Context(), cmd.OutOrStdout(), newWalletCache(client), asJSON)
		},
	}
	status.Flags().Bool("json", false, "print raw JSON")

	bind := &cobra.Command{
		Use:   "bind",
		Short: "Sign the bind message with the configured wallet and open a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			walletSigner, err := newSigner()
			if err != nil {
				return err
			}
			return runWalletBind(cmd.Context(), cmd.OutOrStdout(), newWalletCache(client), walletSigner)
		},
	}

	approve := &cobra.Command{
		Use:   "approve",
		Short: "Approve the trading agent for the bound wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runWalletApprove(cmd.Context(), cmd.OutOrStdout(), newWalletCache(client))
		},
	}

	cmd.AddCommand(status, bind, approve)
	return cmd
}

func runWalletStatus(ctx context.Context, w io.Writer, wallet *session.Cache, asJSON bool) error {
	s, err := wallet.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wallet session: %w", err)
	}

	if asJSON {
		return writeJSON(w, s)
	}
	if !s.Connected {
		fmt.Fprintln(w, cli.InfoStyle.Render("Wallet not connected. Bind one with: hyperclaw wallet bind"))
		return nil
	}

	fmt.Fprintln(w, cli.FormatTitle("Wallet"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Address\t%s\n", s.Address)
	if s.AgentApproved {
		fmt.Fprintf(tw, "Agent\tapproved\n")
	} else {
		fmt.Fprintf(tw, "Agent\tnot approved\n")
	}
	if s.AgentPubKey != "" {
		fmt.Fprintf(tw, "Agent key\t%s\n", s.AgentPubKey)
	}
	if s.UpdatedAt != nil {
		fmt.Fprintf(tw, "Updated\t%s\n", formatTime(*s.UpdatedAt))
	}
	return tw.Flush()
}

func runWalletBind(ctx context.Context, w io.Writer, wallet *session.Cache, s signer.Signer) error {
	if err := wallet.Bind(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(w, cli.FormatSuccess("Wallet bound: "+s.Address()))
	return nil
}

func runWalletApprove(ctx context.Context, w io.Writer, wallet *session.Cache) error {
	key, err := wallet.ApproveAgent(ctx)
	if err != nil {
		return err
	}
	msg := "Trading agent approved"
	if key != "" {
		msg += ": " + key
	}
	fmt.Fprintln(w, cli.FormatSuccess(msg))
	return nil
}
