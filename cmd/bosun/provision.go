package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hullhq/bosun/pkg/config"
	"github.com/hullhq/bosun/pkg/journal"
	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/provision"
	"github.com/hullhq/bosun/pkg/resources"
	"github.com/hullhq/bosun/pkg/runtime"
	"github.com/hullhq/bosun/pkg/types"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the application stack on this host",
	Long: `Provision brings every declared resource to its desired state:
data directories, the generated stack and application config files, the
database and web application containers, and the firewall rule for the
published application port.

The run is strictly sequential and stops at the first failure; resources
already created stay in place. Re-running against a healthy stack is a
no-op.`,
	RunE: runProvision,
}

func runProvision(cmd *cobra.Command, args []string) error {
	cfg, created, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if created {
		log.Logger.Info().Str("path", flagConfig).Msg("generated stack configuration with fresh credentials")
	}
	if flagDataDir != config.DefaultDataDir {
		cfg.DataDir = flagDataDir
	}

	if err := provision.Precheck(cfg.DataDir); err != nil {
		return err
	}

	rt, err := runtime.NewContainerdRuntime(flagSocket)
	if err != nil {
		return err
	}
	defer rt.Close()

	j, err := journal.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer j.Close()

	prims := provision.Primitives{
		types.KindContainer:    resources.NewContainer(rt),
		types.KindComposeStack: resources.NewStack(),
		types.KindConfigFile:   resources.NewFile(),
		types.KindNetwork:      resources.NewNetwork(),
		types.KindFirewallRule: resources.NewFirewall(resources.ExecRunner{}),
	}

	runner := provision.NewRunner(types.RunModeProvision, prims, j)
	record, err := runner.Run(cmd.Context(), provision.BuildPlan(cfg))
	if err != nil {
		return err
	}

	for _, o := range record.Outcomes {
		fmt.Printf("✓ %s/%s: %s\n", o.Kind, o.Name, o.Action)
	}
	fmt.Printf("\nStack %s provisioned. Application port: %d\n", cfg.StackName, cfg.WebPort)
	return nil
}
