package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiberflow/opsdash/internal/config"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/version"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	apiURL    string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "opsdash",
	Short: "Field operations dashboard for NAP capacity and job orders",
	Long: `opsdash serves the field operations dashboard: a filterable directory of
network access points (NAPs) with port utilisation, and an inventory panel
where technicians stage and submit job orders against available stock.

The same engines are available from the command line, either in-process
against the configured catalog or against a running server with --api.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	defer logging.Sync()
	rootCmd.Version = version.Short()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./opsdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "base URL of a running opsdash server (default: run in-process)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(napsCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	if err := logging.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		info := version.Get()
		fmt.Fprintln(out, info.String())

		if cmd.Flag("verbose").Changed {
			fmt.Fprintf(out, "\nDetails:\n")
			fmt.Fprintf(out, "  Version:    %s\n", info.Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "  Built:      %s\n", info.BuildTime)
			fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "  Platform:   %s\n", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "verbose version output")
}
