package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/ledger"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

func newTxnCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transaction", "transactions"},
		Short:   "Manage ledger transactions",
	}
	cmd.AddCommand(
		newTxnListCommand(opts),
		newTxnAddCommand(opts),
		newTxnUpdateCommand(opts),
		newTxnStatusCommand(opts, "approve", model.TxnApproved),
		newTxnStatusCommand(opts, "reject", model.TxnRejected),
		newTxnDeleteCommand(opts),
	)
	return cmd
}

func newTxnListCommand(opts *options) *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.Transactions()
			idx := accounts.NewIndex(wb.Store.Accounts())
			customers := wb.Store.Customers()

			out := cmd.OutOrStdout()
			tw := newTable(out, "DATE", "REFERENCE", "DESCRIPTION", "DEBIT", "CREDIT", "AMOUNT", "CUSTOMER", "STATUS", "ID")
			for _, t := range ledger.Search(all, search, status) {
				customer := ""
				if t.CustomerID != "" {
					customer = crm.Name(customers, t.CustomerID)
				}
				row(tw, date(t.Date), t.Reference, t.Description, idx.Label(t.DebitAccount), idx.Label(t.CreditAccount),
					money(t.Amount), customer, string(t.Status), t.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			counts := ledger.CountByStatus(all)
			fmt.Fprintf(out, "\n%d transactions: %d pending, %d approved, %d rejected\n", len(all),
				counts[model.TxnPending], counts[model.TxnApproved], counts[model.TxnRejected])
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match description or reference")
	cmd.Flags().StringVar(&status, "status", ledger.StatusAll, "Pending, Approved, Rejected or All")
	return cmd
}

func newTxnAddCommand(opts *options) *cobra.Command {
	var t model.Transaction
	var txnDate, amount, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t.Status = model.TransactionStatus(status)
			if !t.Status.Valid() {
				return fmt.Errorf("unknown transaction status %q", status)
			}
			var err error
			if t.Amount, err = parseDecimal("amount", amount); err != nil {
				return err
			}
			if t.Date, err = parseDate("date", txnDate); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if t.Date.IsZero() {
				t.Date = wb.Today()
			}
			added, _ := wb.Store.AddTransaction(t)
			if err := wb.Record(activity.ActionCreate, "transaction", added.ID, added.Description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %s, %s (%s)\n", added.Description, money(added.Amount), added.ID)

			// Problems are reported, not enforced.
			for _, issue := range ledgerCheck(wb, []model.Transaction{added}) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&txnDate, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&t.Reference, "ref", "", "reference")
	cmd.Flags().StringVar(&t.Description, "desc", "", "description (required)")
	cmd.Flags().StringVar(&t.DebitAccount, "debit", "", "debit account id or code (required)")
	cmd.Flags().StringVar(&t.CreditAccount, "credit", "", "credit account id or code (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&t.CustomerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&status, "status", string(model.TxnPending), "Pending, Approved or Rejected")
	for _, f := range []string{"desc", "debit", "credit", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTxnUpdateCommand(opts *options) *cobra.Command {
	var txnDate, ref, desc, debit, credit, amount, customer, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.TransactionPatch{
				Reference:     changedString(cmd, "ref", ref),
				Description:   changedString(cmd, "desc", desc),
				DebitAccount:  changedString(cmd, "debit", debit),
				CreditAccount: changedString(cmd, "credit", credit),
				CustomerID:    changedString(cmd, "customer", customer),
			}
			if cmd.Flags().Changed("status") {
				s := model.TransactionStatus(status)
				if !s.Valid() {
					return fmt.Errorf("unknown transaction status %q", status)
				}
				p.Status = &s
			}
			var err error
			if p.Amount, err = changedDecimal(cmd, "amount", amount); err != nil {
				return err
			}
			if p.Date, err = changedDate(cmd, "date", txnDate); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.UpdateTransaction(args[0], p); err != nil {
				return err
			}
			t, err := wb.Store.Transaction(args[0])
			if err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "transaction", t.ID, t.Description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&txnDate, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ref, "ref", "", "reference")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&debit, "debit", "", "debit account id or code")
	cmd.Flags().StringVar(&credit, "credit", "", "credit account id or code")
	cmd.Flags().StringVar(&amount, "amount", "", "amount")
	cmd.Flags().StringVar(&customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&status, "status", "", "Pending, Approved or Rejected")
	return cmd
}

func newTxnStatusCommand(opts *options, verb string, status model.TransactionStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>...",
		Short: fmt.Sprintf("Mark transactions %s", status),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			p := model.TransactionPatch{Status: &status}
			for _, id := range args {
				if _, err := wb.Store.UpdateTransaction(id, p); err != nil {
					return err
				}
				if err := wb.Record(activity.ActionUpdate, "transaction", id, "status "+string(status)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, id)
			}
			return nil
		},
	}
}

func newTxnDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.DeleteTransaction(args[0]); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionDelete, "transaction", args[0], ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}

// ledgerCheck runs the ledger checks on txns against the workbook's
// accounts and customers.
func ledgerCheck(wb *workbook.Workbook, txns []model.Transaction) []ledger.Issue {
	customers := wb.Store.Customers()
	return ledger.Check(txns, accounts.NewIndex(wb.Store.Accounts()), func(id string) bool {
		_, ok := crm.Find(customers, id)
		return ok
	})
}
