package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hullhq/bosun/pkg/config"
	"github.com/hullhq/bosun/pkg/journal"
	"github.com/hullhq/bosun/pkg/provision"
	"github.com/hullhq/bosun/pkg/resources"
	"github.com/hullhq/bosun/pkg/runtime"
	"github.com/hullhq/bosun/pkg/status"
	"github.com/hullhq/bosun/pkg/types"
)

var flagServe string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report stack health without changing anything",
	Long: `Status probes every declared resource, checks that published ports
accept connections, and scans recent container logs for error keywords.
It performs no mutating calls: nothing is created, started, or written.

The command exits 0 even when checks fail; findings are for the operator.
A missing configuration or unreachable containerd is a prerequisite
failure and exits non-zero.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&flagServe, "serve", "", "Serve /healthz and /metrics on this address instead of printing once")
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Status never generates configuration; a missing file means the host
	// was never provisioned.
	if _, err := os.Stat(flagConfig); err != nil {
		return fmt.Errorf("no stack configuration at %s: run `bosun provision` first", flagConfig)
	}

	cfg, _, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDataDir != config.DefaultDataDir {
		cfg.DataDir = flagDataDir
	}

	rt, err := runtime.NewContainerdRuntime(flagSocket)
	if err != nil {
		return err
	}
	defer rt.Close()

	prims := provision.Primitives{
		types.KindContainer:    resources.NewContainer(rt),
		types.KindComposeStack: resources.NewStack(),
		types.KindConfigFile:   resources.NewFile(),
		types.KindNetwork:      resources.NewNetwork(),
		types.KindFirewallRule: resources.NewFirewall(resources.ExecRunner{}),
	}

	plan := provision.BuildPlan(cfg)
	reporter := status.NewReporter(prims, filepath.Join(cfg.DataDir, "logs"))

	// Attach run history when a journal exists. Status never creates one:
	// the command stays read-only.
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "bosun.db")); err == nil {
		j, jerr := journal.Open(cfg.DataDir)
		if jerr != nil {
			return jerr
		}
		defer j.Close()
		reporter = reporter.WithHistory(j)
	}

	if flagServe != "" {
		return status.Serve(cmd.Context(), flagServe, reporter, plan)
	}

	report, err := reporter.Report(cmd.Context(), plan)
	if err != nil {
		return err
	}

	if last := report.LastRun; last != nil {
		result := "succeeded"
		if !last.Succeeded {
			result = "failed at " + last.FailedStage
		}
		fmt.Printf("last %s run %s at %s\n\n", last.Mode, result, last.StartedAt.Format(time.RFC3339))
	}

	passing := 0
	for _, c := range report.Checks {
		mark := "✗"
		if c.Passing {
			mark = "✓"
			passing++
		}
		fmt.Printf("%s %-14s %-28s %s\n", mark, c.Kind, c.Name, c.Detail)
	}
	fmt.Printf("\n%d/%d checks passing\n", passing, len(report.Checks))
	return nil
}
