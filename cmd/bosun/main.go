package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hullhq/bosun/pkg/config"
	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/metrics"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	flagConfig   string
	flagDataDir  string
	flagLogLevel string
	flagJSON     bool
	flagSocket   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bosun",
	Short: "Bosun - single-host application stack provisioner",
	Long: `Bosun provisions a business application stack (web application plus
database) on a single host using containerd, and hardens fresh servers:
operator account, SSH key install, sshd lockdown, firewall.

Every run is idempotent: resources that already exist are left alone,
stopped resources are started, and missing resources are created.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(log.Config{
			Level:      log.Level(flagLogLevel),
			JSONOutput: flagJSON,
		})
		metrics.Register()
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Bosun version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to the stack configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", config.DefaultDataDir, "Base directory for stack data and run history")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Emit JSON logs instead of console output")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "containerd-socket", "", "Path to the containerd socket")

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(hardenCmd)
}
