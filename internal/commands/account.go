package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/report"
	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

func newAccountCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(opts),
		newAccountAddCommand(opts),
		newAccountUpdateCommand(opts),
		newAccountDeleteCommand(opts),
	)
	return cmd
}

func newAccountListCommand(opts *options) *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.Accounts()
			list := all
			if accountType != "" {
				list = accounts.NewIndex(all).ByType(model.AccountType(accountType))
			}

			out := cmd.OutOrStdout()
			tw := newTable(out, "CODE", "NAME", "TYPE", "CATEGORY", "BALANCE", "ACTIVE", "ID")
			for _, a := range list {
				row(tw, a.Code, a.Name, string(a.Type), a.Category, money(a.Balance), fmt.Sprint(a.IsActive), a.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			t := report.ComputeTotals(all)
			fmt.Fprintf(out, "\nAssets %s  Liabilities %s  Equity %s  Revenue %s  Expenses %s  Net income %s\n",
				money(t.Assets), money(t.Liabilities), money(t.Equity), money(t.Revenue), money(t.Expenses), money(t.NetIncome))
			return nil
		},
	}
	cmd.Flags().StringVar(&accountType, "type", "", "only accounts of this type (Asset, Liability, Equity, Revenue, Expense)")
	return cmd
}

func newAccountAddCommand(opts *options) *cobra.Command {
	var a model.Account
	var accountType, balance string
	inactive := false

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Type = model.AccountType(accountType)
			if !a.Type.Valid() {
				return fmt.Errorf("unknown account type %q", accountType)
			}
			bal, err := parseDecimal("balance", balance)
			if err != nil {
				return err
			}
			a.Balance = bal
			a.IsActive = !inactive

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if a.ParentID != "" {
				parent, ok := accounts.NewIndex(wb.Store.Accounts()).Resolve(a.ParentID)
				if !ok {
					return fmt.Errorf("unknown parent account %q", a.ParentID)
				}
				a.ParentID = parent.ID
			}

			added, _ := wb.Store.AddAccount(a)
			if err := wb.Record(activity.ActionCreate, "account", added.ID, added.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s %s (%s)\n", added.Code, added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.Code, "code", "", "account code")
	cmd.Flags().StringVar(&a.Name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&accountType, "type", "", "account type (required)")
	cmd.Flags().StringVar(&a.Category, "category", "", "category, e.g. \"Current Assets\"")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&a.ParentID, "parent", "", "parent account id or code")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account inactive")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newAccountUpdateCommand(opts *options) *cobra.Command {
	var code, name, accountType, category, balance, parent string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <id-or-code>",
		Short: "Change fields of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			a, err := resolveAccount(wb, args[0])
			if err != nil {
				return err
			}

			p := model.AccountPatch{
				Code:     changedString(cmd, "code", code),
				Name:     changedString(cmd, "name", name),
				Category: changedString(cmd, "category", category),
				ParentID: changedString(cmd, "parent", parent),
			}
			if cmd.Flags().Changed("type") {
				t := model.AccountType(accountType)
				if !t.Valid() {
					return fmt.Errorf("unknown account type %q", accountType)
				}
				p.Type = &t
			}
			if p.Balance, err = changedDecimal(cmd, "balance", balance); err != nil {
				return err
			}
			if cmd.Flags().Changed("active") {
				p.IsActive = &active
			}

			if _, err := wb.Store.UpdateAccount(a.ID, p); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "account", a.ID, a.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s\n", a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "account code")
	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&accountType, "type", "", "account type")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&balance, "balance", "", "balance")
	cmd.Flags().StringVar(&parent, "parent", "", "parent account id")
	cmd.Flags().BoolVar(&active, "active", true, "whether the account is active")
	return cmd
}

func newAccountDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-code>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			a, err := resolveAccount(wb, args[0])
			if err != nil {
				return err
			}
			if _, err := wb.Store.DeleteAccount(a.ID); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionDelete, "account", a.ID, a.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s %s\n", a.Code, a.Name)
			return nil
		},
	}
}

// resolveAccount looks an account up by id, then by code.
func resolveAccount(wb *workbook.Workbook, ref string) (model.Account, error) {
	a, ok := accounts.NewIndex(wb.Store.Accounts()).Resolve(ref)
	if !ok {
		return wb.Store.Account(ref)
	}
	return a, nil
}
