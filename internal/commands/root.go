package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/buildinfo"
	"github.com/cleared-dev/ledgerdash/internal/logger"
	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

// options are the flags shared by every command.
type options struct {
	repo      string
	logCloser io.Closer
}

// open loads the workbook named by --repo and switches logging to the
// workbook's log settings.
func (o *options) open() (*workbook.Workbook, error) {
	dir, err := filepath.Abs(o.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	wb, err := workbook.Open(dir)
	if err != nil {
		return nil, err
	}

	closer, err := logger.Setup(wb.Config.Logger())
	if err != nil {
		return nil, err
	}
	o.logCloser = closer
	return wb, nil
}

func (o *options) close() error {
	if o.logCloser == nil {
		return nil
	}
	return o.logCloser.Close()
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "ledgerdash",
		Short:   "Small business accounting and invoicing workbook",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "workbook directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(opts),
		newCustomerCommand(opts),
		newTxnCommand(opts),
		newInvoiceCommand(opts),
		newKPICommand(opts),
		newInsightsCommand(opts),
		newReportCommand(opts),
		newDashboardCommand(opts),
		newCheckCommand(opts),
		newImportCommand(opts),
		newActivityCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}
