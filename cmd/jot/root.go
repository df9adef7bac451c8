package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/config"
)

var (
	verbose      bool
	configPath   string
	apiURL       string
	storeBackend string
	storeDir     string

	cfg    config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "A command line client for a remote notes API",
	Long: `jot signs in to a notes server, keeps the session token on this machine
and lets you list, add, edit and delete short notes made of text items.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wd, _ := os.Getwd()
		resolved, err := config.Resolve(configPath, wd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("api-url") {
			resolved.APIURL = apiURL
		}
		if flags.Changed("store") {
			resolved.Store.Backend = storeBackend
		}
		if flags.Changed("store-dir") {
			resolved.Store.Dir = storeDir
		}
		if verbose {
			resolved.LogLevel = "debug"
		}
		if err := resolved.Validate(); err != nil {
			return err
		}

		level, _ := config.ParseLevel(resolved.LogLevel)
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)

		cfg = resolved
		stdinReader = nil
		return nil
	},
}

// openClient builds a Client from the resolved configuration and restores
// the stored session.
func openClient(cmd *cobra.Command) (*jot.Client, error) {
	return jot.Open(cmd.Context(), cfg.APIURL,
		jot.WithBackend(cfg.Store.Backend),
		jot.WithStoreDir(cfg.Store.Dir),
		jot.WithTimeout(cfg.Timeout),
		jot.WithVerifyOnLoad(cfg.VerifyOnLoad),
		jot.WithLogger(logger),
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <config dir>/jot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Notes API base URL")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Credential store backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "Directory of the file and sqlite stores")
}
