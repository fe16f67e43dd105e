package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hullhq/bosun/pkg/harden"
	"github.com/hullhq/bosun/pkg/journal"
	"github.com/hullhq/bosun/pkg/provision"
	"github.com/hullhq/bosun/pkg/resources"
	"github.com/hullhq/bosun/pkg/types"
)

var (
	flagHardenUser string
	flagSSHKey     string
	flagSSHKeyFile string
)

var hardenCmd = &cobra.Command{
	Use:   "harden",
	Short: "First-run hardening of a fresh server",
	Long: `Harden creates a sudo-capable operator account with the given SSH
public key, disables root login and password authentication via an sshd
drop-in, and enables the firewall with an OpenSSH allow rule.

The account is created and the key installed before password logins are
disabled, so the operator cannot be locked out. An existing account is
left untouched.`,
	RunE: runHarden,
}

func init() {
	hardenCmd.Flags().StringVar(&flagHardenUser, "user", "", "Operator account to create (required)")
	hardenCmd.Flags().StringVar(&flagSSHKey, "ssh-key", "", "SSH public key to install (authorized_keys line)")
	hardenCmd.Flags().StringVar(&flagSSHKeyFile, "key-file", "", "Read the SSH public key from this file")
	_ = hardenCmd.MarkFlagRequired("user")
}

func runHarden(cmd *cobra.Command, args []string) error {
	key := flagSSHKey
	if key == "" && flagSSHKeyFile != "" {
		data, err := os.ReadFile(flagSSHKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}
		key = strings.TrimSpace(string(data))
	}

	if err := os.MkdirAll(flagDataDir, 0755); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", flagDataDir, err)
	}
	j, err := journal.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer j.Close()

	exec := resources.ExecRunner{}
	prims := provision.Primitives{
		types.KindOsAccount:    resources.NewAccount(exec),
		types.KindConfigFile:   resources.NewFile(),
		types.KindFirewallRule: resources.NewFirewall(exec),
	}

	h := harden.New(prims, exec, j)
	record, err := h.Run(cmd.Context(), harden.Options{
		Username:      flagHardenUser,
		AuthorizedKey: key,
	})
	if err != nil {
		return err
	}

	for _, o := range record.Outcomes {
		fmt.Printf("✓ %s/%s: %s\n", o.Kind, o.Name, o.Action)
	}
	fmt.Printf("\nHost hardened. Log in as %s with your SSH key.\n", flagHardenUser)
	return nil
}
