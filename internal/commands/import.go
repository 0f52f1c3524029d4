package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/importer"
)

func newImportCommand(opts *options) *cobra.Command {
	var bankName string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank CSV files from import/ as pending transactions",
		Long: `Import converts every CSV file waiting in import/ into Pending
transactions between the bank's account and the clearing account, skipping
rows already in the ledger. Processed files move to import/processed/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			bank, ok := wb.Config.BankAccount(bankName)
			if !ok {
				if bankName != "" {
					return fmt.Errorf("no bank account named %q in config", bankName)
				}
				return errors.New("no bank_accounts configured in ledgerdash.yaml")
			}

			files, err := importer.Scan(wb.Dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "Nothing to import")
				return nil
			}

			reg := importer.DefaultRegistry()
			for _, f := range files {
				res, err := wb.Import(f, bank, reg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d transactions added, %d duplicates skipped\n", res.File, len(res.Added), res.Duplicates)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bankName, "bank", "", "bank account name from config (default the first)")
	return cmd
}
