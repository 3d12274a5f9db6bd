package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/hyperclaw/internal/cli"
	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/config"
)

var (
	cfgFile  string
	version  = "dev"
	settings config.Settings
	logFile  *os.File
	rootCmd  = &cobra.Command{
		Use:   "hyperclaw",
		Short: "🦞 Trading console for the HyperClaw strategy backend",
		Long: `hyperclaw: a terminal console for the HyperClaw trading backend.

Watch account equity and the automated strategy, place paper or live
orders with attached stop-loss and take-profit, and review past fills
as good or bad trades.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/hyperclaw/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api-base", "", "backend base URL (default: "+config.DefaultBaseURL+")")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-base"))

	// Add commands
	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(fillsCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(derivesCmd())
	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(strategyCmd())
	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup
	if logFile != nil {
		_ = logFile.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err, err.Error())))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/hyperclaw", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	s, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = s

	if err := setupLogging(usesTerminalUI(cmd)); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// setupLogging sends logs to stderr, or to the log file while a full
// screen UI owns the terminal.
func setupLogging(toFile bool) error {
	level, err := common.ParseLevel(settings.Logging.Level)
	if err != nil {
		return err
	}

	if !toFile {
		return common.SetupLogger(level, settings.Logging.Format)
	}

	f, err := common.OpenLogFile(settings.Logging.File)
	if err != nil {
		return err
	}
	logFile = f
	return common.SetupLoggerTo(f, level, settings.Logging.Format)
}

func usesTerminalUI(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "console":
		return true
	case "review":
		plain, _ := cmd.Flags().GetBool("plain")
		return !plain
	default:
		return false
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hyperclaw %s\n", version)
		},
	}
}
