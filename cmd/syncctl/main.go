package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/code-100-precent/LingSync/cmd/bootstrap"
	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/code-100-precent/LingSync/pkg/config"
	"github.com/code-100-precent/LingSync/pkg/constants"
	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "syncctl",
	Short:         "Reconcile ElevenLabs agents and conversations from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		if mode != "" {
			os.Setenv(constants.ENV_APP_ENV, mode)
		}
		if err := config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg := config.GlobalConfig.Log
		// keep stdout clean for the JSON result
		cfg.Filename = ""
		cfg.Level = "warn"
		return logger.Init(&cfg, config.GlobalConfig.Mode)
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "", "running environment (development, test, production)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEngine opens the configured database and wires the provider client
func newEngine() (*reconcile.Engine, error) {
	db, err := bootstrap.SetupDatabase(io.Discard, &bootstrap.Options{
		AutoMigrate: config.GlobalConfig.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	el := config.GlobalConfig.ElevenLabs
	client := elevenlabs.NewClient(elevenlabs.Config{
		APIKey:   el.APIKey,
		BaseURL:  el.BaseURL,
		Timeout:  el.Timeout,
		PageSize: el.PageSize,
	})
	return reconcile.NewEngine(db, client), nil
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
