package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parksense/parksense/config"
	"github.com/parksense/parksense/infra/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Ledger related commands",
}

var ledgerCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the external ledger command can be detected",
	RunE:  runLedgerCheck,
}

func init() {
	ledgerCmd.AddCommand(ledgerCheckCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cli, err := ledger.NewCLIClient(cfg.Ledger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ledger command: %s\n", strings.Join(cli.Command(), " "))
	return nil
}
