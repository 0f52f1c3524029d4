package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/insights"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/report"
	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

func newReportCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Financial statements",
	}
	cmd.AddCommand(
		newStatementCommand(opts, "balance-sheet", "Balance sheet", printBalanceSheet),
		newStatementCommand(opts, "income-statement", "Income statement", printIncomeStatement),
		newStatementCommand(opts, "trial-balance", "Trial balance", printTrialBalance),
		newStatementCommand(opts, "cash-flow", "Cash flow statement", printCashFlow),
	)
	return cmd
}

// statementPrinter writes one statement as text to w and returns the
// statement for JSON output.
type statementPrinter func(w io.Writer, wb *workbook.Workbook) (any, error)

func newStatementCommand(opts *options, use, short string, render statementPrinter) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				v, err := render(io.Discard, wb)
				if err != nil {
					return err
				}
				return printJSON(out, v)
			}
			fmt.Fprintf(out, "%s\n%s\n\n", wb.Config.Business.Name, short)
			_, err = render(out, wb)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSection(w io.Writer, s report.Section) {
	fmt.Fprintln(w, s.Title)
	for _, l := range s.Lines {
		fmt.Fprintf(w, "  %-6s %-30s %14s\n", l.Code, l.Name, money(l.Amount))
	}
	fmt.Fprintf(w, "  %-37s %14s\n\n", "Total "+s.Title, money(s.Total))
}

func printBalanceSheet(w io.Writer, wb *workbook.Workbook) (any, error) {
	bs := report.NewBalanceSheet(wb.Store.Accounts())
	for _, s := range bs.Assets {
		printSection(w, s)
	}
	fmt.Fprintf(w, "%-39s %14s\n\n", "TOTAL ASSETS", money(bs.TotalAssets))
	printSection(w, bs.Liabilities)
	printSection(w, bs.Equity)
	fmt.Fprintf(w, "%-39s %14s\n", "TOTAL LIABILITIES AND EQUITY", money(bs.TotalLiabilitiesAndEquity))
	if !bs.Balanced() {
		fmt.Fprintf(w, "\nwarning: out of balance by %s\n", money(bs.TotalAssets.Sub(bs.TotalLiabilitiesAndEquity)))
	}
	return bs, nil
}

func printIncomeStatement(w io.Writer, wb *workbook.Workbook) (any, error) {
	is := report.NewIncomeStatement(wb.Store.Accounts())
	printSection(w, is.Revenue)
	printSection(w, is.Expenses)
	fmt.Fprintf(w, "%-39s %14s\n", "NET INCOME", money(is.NetIncome))
	return is, nil
}

func printTrialBalance(w io.Writer, wb *workbook.Workbook) (any, error) {
	tb := report.NewTrialBalance(wb.Store.Accounts())
	tw := newTable(w, "CODE", "ACCOUNT", "TYPE", "DEBIT", "CREDIT")
	for _, r := range tb.Rows {
		debit, credit := "", ""
		if r.Type.DebitNormal() {
			debit = money(r.Debit)
		} else {
			credit = money(r.Credit)
		}
		row(tw, r.Code, r.Name, string(r.Type), debit, credit)
	}
	row(tw, "", "TOTAL", "", money(tb.TotalDebit), money(tb.TotalCredit))
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	if !tb.Balanced() {
		fmt.Fprintf(w, "\nwarning: debits and credits differ by %s\n", money(tb.TotalDebit.Sub(tb.TotalCredit)))
	}
	return tb, nil
}

func printCashFlow(w io.Writer, wb *workbook.Workbook) (any, error) {
	cf := report.NewCashFlow(wb.Store.Accounts(), wb.Config.CashFlowAdjustments())
	lines := []struct {
		label string
		v     string
	}{
		{"Operating activities", ""},
		{"  Net income", money(cf.NetIncome)},
		{"  Depreciation", money(cf.Depreciation)},
		{"  Change in working capital", money(cf.WorkingCapital)},
		{"Net cash from operating", money(cf.Operating)},
		{"Investing activities", ""},
		{"  Equipment purchases", money(cf.EquipmentPurchases)},
		{"Net cash from investing", money(cf.Investing)},
		{"Financing activities", ""},
		{"  Owner investment", money(cf.OwnerInvestment)},
		{"Net cash from financing", money(cf.Financing)},
		{"NET INCREASE IN CASH", money(cf.NetIncrease)},
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%-39s %14s\n", l.label, l.v)
	}
	return cf, nil
}

func newDashboardCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Headline figures for the workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			snap := wb.Store.Snapshot()
			d := report.NewDashboard(report.DashboardInput{
				Accounts:     snap.Accounts,
				Customers:    snap.Customers,
				Transactions: snap.Transactions,
				Invoices:     snap.Invoices,
				KPIs:         snap.KPIs,
				Insights:     snap.Insights,
			})
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, d)
			}

			fmt.Fprintf(out, "%s\n\n", wb.Config.Business.Name)
			fmt.Fprintf(out, "Total assets         %14s\n", money(d.Totals.Assets))
			fmt.Fprintf(out, "Total liabilities    %14s\n", money(d.Totals.Liabilities))
			fmt.Fprintf(out, "Net income           %14s\n", money(d.Totals.NetIncome))
			fmt.Fprintf(out, "Active customers     %14d\n", d.ActiveCustomers)
			fmt.Fprintf(out, "Outstanding invoices %14d  (%s)\n", d.OutstandingInvoices, money(d.OutstandingAmount))
			fmt.Fprintf(out, "Pending transactions %14d\n", d.PendingTransactions)
			fmt.Fprintf(out, "KPIs on target       %14d of %d\n", d.KPIs.OnTarget, d.KPIs.OnTarget+d.KPIs.BelowTarget)

			if len(d.HighPriorityInsights) > 0 {
				fmt.Fprintln(out, "\nHigh priority")
				for _, ins := range d.HighPriorityInsights {
					fmt.Fprintf(out, "  [%s] %s\n", ins.Type, ins.Title)
				}
			}
			if len(d.RecentTransactions) > 0 {
				fmt.Fprintln(out, "\nRecent transactions")
				tw := newTable(out, "  DATE", "DESCRIPTION", "AMOUNT", "STATUS")
				for _, t := range d.RecentTransactions {
					row(tw, "  "+date(t.Date), t.Description, money(t.Amount), string(t.Status))
				}
				return tw.Flush()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newInsightsCommand(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show business insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.Insights()
			out := cmd.OutOrStdout()
			for _, ins := range insights.Filter(all, category) {
				fmt.Fprintf(out, "%s  [%s, %s priority, %s]\n  %s\n\n",
					ins.Title, ins.Type, ins.Priority, ins.Category, ins.Description)
			}
			counts := insights.CountByPriority(all)
			fmt.Fprintf(out, "%d insights: %d high, %d medium, %d low priority\n", len(all),
				counts[model.PriorityHigh], counts[model.PriorityMedium], counts[model.PriorityLow])
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", insights.CategoryAll, "only this category")
	return cmd
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report data problems in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			txns := wb.Store.Transactions()
			issues := ledgerCheck(wb, txns)

			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue.Error())
			}
			fmt.Fprintf(out, "%d transactions checked, %d issues\n", len(txns), len(issues))
			return nil
		},
	}
}

func newActivityCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes to the workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			entries, err := wb.Activity(limit)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "TIME", "ACTOR", "ACTION", "ENTITY", "ID", "DETAILS")
			for _, e := range entries {
				row(tw, e.Timestamp.Format("2006-01-02 15:04:05"), e.Actor, e.Action, e.Entity, e.EntityID, e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}
