package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

func newCustomerCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customer",
		Aliases: []string{"customers"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(
		newCustomerListCommand(opts),
		newCustomerShowCommand(opts),
		newCustomerAddCommand(opts),
		newCustomerUpdateCommand(opts),
		newCustomerDeleteCommand(opts),
	)
	return cmd
}

func newCustomerListCommand(opts *options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.Customers()

			out := cmd.OutOrStdout()
			tw := newTable(out, "NAME", "COMPANY", "EMAIL", "STATUS", "REVENUE", "LAST CONTACT", "ID")
			for _, c := range crm.Search(all, search) {
				row(tw, c.Name, c.Company, c.Email, string(c.Status), money(c.TotalRevenue), date(c.LastContact), c.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			counts := crm.CountByStatus(all)
			fmt.Fprintf(out, "\n%d customers: %d active, %d inactive, %d prospects\n", len(all),
				counts[model.CustomerActive], counts[model.CustomerInactive], counts[model.CustomerProspect])
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name, email or company")
	return cmd
}

func newCustomerShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a customer and their invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			c, err := wb.Store.Customer(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", c.Name, c.Status)
			for _, f := range [][2]string{
				{"Company", c.Company},
				{"Email", c.Email},
				{"Phone", c.Phone},
				{"Address", c.Address},
				{"Last contact", date(c.LastContact)},
				{"Notes", c.Notes},
			} {
				if f[1] != "" {
					fmt.Fprintf(out, "  %-13s %s\n", f[0]+":", f[1])
				}
			}
			fmt.Fprintf(out, "  %-13s %s\n", "Revenue:", money(c.TotalRevenue))

			invoices := invoice.ForCustomer(wb.Store.Invoices(), c.ID)
			if len(invoices) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw := newTable(out, "NUMBER", "DATE", "DUE", "AMOUNT", "STATUS")
			for _, inv := range invoices {
				row(tw, inv.Number, date(inv.Date), date(inv.DueDate), money(inv.Amount), string(inv.Status))
			}
			return tw.Flush()
		},
	}
}

func newCustomerAddCommand(opts *options) *cobra.Command {
	var c model.Customer
	var status, revenue, lastContact string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Status = model.CustomerStatus(status)
			if !c.Status.Valid() {
				return fmt.Errorf("unknown customer status %q", status)
			}
			var err error
			if c.TotalRevenue, err = parseDecimal("revenue", revenue); err != nil {
				return err
			}
			if c.LastContact, err = parseDate("last-contact", lastContact); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			added, _ := wb.Store.AddCustomer(c)
			if err := wb.Record(activity.ActionCreate, "customer", added.ID, added.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added customer %s (%s)\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "customer name (required)")
	cmd.Flags().StringVar(&c.Email, "email", "", "email address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&c.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&c.Company, "company", "", "company")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "notes")
	cmd.Flags().StringVar(&status, "status", string(model.CustomerActive), "Active, Inactive or Prospect")
	cmd.Flags().StringVar(&revenue, "revenue", "0", "total revenue to date")
	cmd.Flags().StringVar(&lastContact, "last-contact", "", "last contact date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCustomerUpdateCommand(opts *options) *cobra.Command {
	var name, email, phone, address, company, notes, status, revenue, lastContact string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.CustomerPatch{
				Name:    changedString(cmd, "name", name),
				Email:   changedString(cmd, "email", email),
				Phone:   changedString(cmd, "phone", phone),
				Address: changedString(cmd, "address", address),
				Company: changedString(cmd, "company", company),
				Notes:   changedString(cmd, "notes", notes),
			}
			if cmd.Flags().Changed("status") {
				s := model.CustomerStatus(status)
				if !s.Valid() {
					return fmt.Errorf("unknown customer status %q", status)
				}
				p.Status = &s
			}
			var err error
			if p.TotalRevenue, err = changedDecimal(cmd, "revenue", revenue); err != nil {
				return err
			}
			if p.LastContact, err = changedDate(cmd, "last-contact", lastContact); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.UpdateCustomer(args[0], p); err != nil {
				return err
			}
			c, err := wb.Store.Customer(args[0])
			if err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "customer", c.ID, c.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated customer %s\n", c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cmd.Flags().StringVar(&company, "company", "", "company")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&status, "status", "", "Active, Inactive or Prospect")
	cmd.Flags().StringVar(&revenue, "revenue", "", "total revenue to date")
	cmd.Flags().StringVar(&lastContact, "last-contact", "", "last contact date (YYYY-MM-DD)")
	return cmd
}

func newCustomerDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer. Their invoices are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			c, err := wb.Store.Customer(args[0])
			if err != nil {
				return err
			}
			if _, err := wb.Store.DeleteCustomer(c.ID); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionDelete, "customer", c.ID, c.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted customer %s\n", c.Name)
			return nil
		},
	}
}
