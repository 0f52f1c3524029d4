package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

func newInvoiceCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"invoices"},
		Short:   "Create and track invoices",
	}
	cmd.AddCommand(
		newInvoiceListCommand(opts),
		newInvoiceShowCommand(opts),
		newInvoiceCreateCommand(opts),
		newInvoiceUpdateCommand(opts),
		newInvoiceStatusCommand(opts, "send", model.InvoiceSent),
		newInvoiceStatusCommand(opts, "pay", model.InvoicePaid),
		newInvoiceAddItemCommand(opts),
		newInvoiceRemoveItemCommand(opts),
		newInvoiceMarkOverdueCommand(opts),
		newInvoiceDeleteCommand(opts),
	)
	return cmd
}

// parseItem reads "description:quantity:rate". The description may itself
// contain colons.
func parseItem(s string) (model.InvoiceItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return model.InvoiceItem{}, fmt.Errorf("--item %q: want description:quantity:rate", s)
	}
	n := len(parts)
	qty, err := parseDecimal("item", parts[n-2])
	if err != nil {
		return model.InvoiceItem{}, err
	}
	rate, err := parseDecimal("item", parts[n-1])
	if err != nil {
		return model.InvoiceItem{}, err
	}
	return model.InvoiceItem{
		Description: strings.Join(parts[:n-2], ":"),
		Quantity:    qty,
		Rate:        rate,
	}, nil
}

func newInvoiceListCommand(opts *options) *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.Invoices()
			customers := wb.Store.Customers()
			list := invoice.Search(all, customers, search, status)
			today := wb.Today()

			out := cmd.OutOrStdout()
			tw := newTable(out, "NUMBER", "CUSTOMER", "DATE", "DUE", "AMOUNT", "STATUS", "ID")
			for _, inv := range list {
				st := string(inv.Status)
				if invoice.PastDue(inv, today) {
					st += " (past due)"
				}
				row(tw, inv.Number, invoice.CustomerName(customers, inv.CustomerID), date(inv.Date), date(inv.DueDate),
					money(inv.Amount), st, inv.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			counts := invoice.CountByStatus(all)
			fmt.Fprintf(out, "\n%d shown, total %s. Draft %d, Sent %d, Paid %d, Overdue %d\n",
				len(list), money(invoice.TotalAmount(list)),
				counts[model.InvoiceDraft], counts[model.InvoiceSent], counts[model.InvoicePaid], counts[model.InvoiceOverdue])
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match invoice number or customer name")
	cmd.Flags().StringVar(&status, "status", invoice.StatusAll, "Draft, Sent, Paid, Overdue or All")
	return cmd
}

func newInvoiceShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an invoice with its items and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			inv, err := wb.Store.Invoice(args[0])
			if err != nil {
				return err
			}
			customers := wb.Store.Customers()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Invoice %s  %s\n", inv.Number, inv.Status)
			fmt.Fprintf(out, "Bill to: %s\n", invoice.CustomerName(customers, inv.CustomerID))
			fmt.Fprintf(out, "Date: %s  Due: %s\n", date(inv.Date), date(inv.DueDate))
			keys := make([]string, 0, len(inv.Extra))
			for k := range inv.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %s\n", k, inv.Extra[k])
			}
			fmt.Fprintln(out)

			tw := newTable(out, "#", "DESCRIPTION", "QTY", "RATE", "AMOUNT", "ITEM ID")
			for i, item := range inv.Items {
				row(tw, fmt.Sprint(i+1), item.Description, item.Quantity.String(), money(item.Rate), money(item.Amount), item.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			t := invoice.ComputeTotals(inv, wb.Config.InvoiceDefaults())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-16s %12s\n", "Subtotal", money(t.Subtotal))
			fmt.Fprintf(out, "%-16s %12s\n", "Discount", money(t.Discount))
			fmt.Fprintf(out, "%-16s %12s\n", "After discount", money(t.AfterDiscount))
			fmt.Fprintf(out, "%-16s %12s\n", "VAT "+t.VATRate.Mul(decimal.NewFromInt(100)).String()+"%", money(t.VAT))
			fmt.Fprintf(out, "%-16s %12s\n", "Net total", money(t.Net))
			if inv.Notes != "" {
				fmt.Fprintf(out, "\nNotes: %s\n", inv.Notes)
			}
			return nil
		},
	}
}

func newInvoiceCreateCommand(opts *options) *cobra.Command {
	var inv model.Invoice
	var number, invDate, due, discount, vat, status string
	var items []string
	var extra map[string]string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range items {
				item, err := parseItem(s)
				if err != nil {
					return err
				}
				inv.Items = append(inv.Items, item)
			}
			var err error
			if inv.Date, err = parseDate("date", invDate); err != nil {
				return err
			}
			if inv.DueDate, err = parseDate("due", due); err != nil {
				return err
			}
			if inv.Discount, err = changedDecimal(cmd, "discount", discount); err != nil {
				return err
			}
			if inv.VATRate, err = changedDecimal(cmd, "vat", vat); err != nil {
				return err
			}
			inv.Number = number
			inv.Status = model.InvoiceStatus(status)
			if inv.Status != "" && !inv.Status.Valid() {
				return fmt.Errorf("unknown invoice status %q", status)
			}
			inv.Extra = extra

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.Customer(inv.CustomerID); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: customer %s not found\n", inv.CustomerID)
			}
			added, _ := wb.Store.AddInvoice(wb.InvoiceDefaults(inv))
			if err := wb.Record(activity.ActionCreate, "invoice", added.ID, added.Number); err != nil {
				return err
			}
			t := invoice.ComputeTotals(added, wb.Config.InvoiceDefaults())
			fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s (%s), net total %s\n", added.Number, added.ID, money(t.Net))
			return nil
		},
	}
	cmd.Flags().StringVar(&inv.CustomerID, "customer", "", "customer id (required)")
	cmd.Flags().StringVar(&number, "number", "", "invoice number (default next in series)")
	cmd.Flags().StringVar(&invDate, "date", "", "invoice date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, default date + due_days)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "line item as description:quantity:rate (repeatable)")
	cmd.Flags().StringVar(&discount, "discount", "", "discount amount (default from config)")
	cmd.Flags().StringVar(&vat, "vat", "", "VAT rate as a fraction, e.g. 0.05 (default from config)")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default Draft)")
	cmd.Flags().StringVar(&inv.Notes, "notes", "", "notes")
	cmd.Flags().StringToStringVar(&extra, "extra", nil, "extra fields as key=value, e.g. vehicle=AB12CDE")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func newInvoiceUpdateCommand(opts *options) *cobra.Command {
	var number, customer, invDate, due, discount, vat, status, notes string
	var extra map[string]string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.InvoicePatch{
				Number:     changedString(cmd, "number", number),
				CustomerID: changedString(cmd, "customer", customer),
				Notes:      changedString(cmd, "notes", notes),
				Extra:      extra,
			}
			if cmd.Flags().Changed("status") {
				s := model.InvoiceStatus(status)
				if !s.Valid() {
					return fmt.Errorf("unknown invoice status %q", status)
				}
				p.Status = &s
			}
			var err error
			if p.Date, err = changedDate(cmd, "date", invDate); err != nil {
				return err
			}
			if p.DueDate, err = changedDate(cmd, "due", due); err != nil {
				return err
			}
			if p.Discount, err = changedDecimal(cmd, "discount", discount); err != nil {
				return err
			}
			if p.VATRate, err = changedDecimal(cmd, "vat", vat); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.UpdateInvoice(args[0], p); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "invoice", args[0], ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated invoice %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&number, "number", "", "invoice number")
	cmd.Flags().StringVar(&customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&invDate, "date", "", "invoice date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&discount, "discount", "", "discount amount")
	cmd.Flags().StringVar(&vat, "vat", "", "VAT rate as a fraction")
	cmd.Flags().StringVar(&status, "status", "", "Draft, Sent, Paid or Overdue")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringToStringVar(&extra, "extra", nil, "extra fields as key=value; an empty value removes the key")
	return cmd
}

func newInvoiceStatusCommand(opts *options, verb string, status model.InvoiceStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: fmt.Sprintf("Mark an invoice %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.SetInvoiceStatus(args[0], status); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "invoice", args[0], "status "+string(status)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s marked %s\n", args[0], status)
			return nil
		},
	}
}

func newInvoiceAddItemCommand(opts *options) *cobra.Command {
	var desc, qty, rate string

	cmd := &cobra.Command{
		Use:   "add-item <invoice-id>",
		Short: "Append a line item to an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseDecimal("qty", qty)
			if err != nil {
				return err
			}
			r, err := parseDecimal("rate", rate)
			if err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			item := invoice.NewItem(wb.Store.NextID())
			item.Description, item.Quantity, item.Rate = desc, q, r
			inv, err := wb.Store.UpdateInvoiceItems(args[0], func(items []model.InvoiceItem) ([]model.InvoiceItem, error) {
				return invoice.AppendItem(items, item)
			})
			if err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "invoice", inv.ID, "add item "+desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s to %s\n", item.ID, inv.Number)
			return nil
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "description (required)")
	cmd.Flags().StringVar(&qty, "qty", "1", "quantity")
	cmd.Flags().StringVar(&rate, "rate", "0", "unit rate")
	_ = cmd.MarkFlagRequired("desc")
	return cmd
}

func newInvoiceRemoveItemCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <invoice-id> <item-id>",
		Short: "Remove a line item. The last item cannot be removed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			inv, err := wb.Store.UpdateInvoiceItems(args[0], func(items []model.InvoiceItem) ([]model.InvoiceItem, error) {
				return invoice.DeleteItem(items, args[1])
			})
			if err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "invoice", inv.ID, "remove item"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s from %s\n", args[1], inv.Number)
			return nil
		},
	}
}

func newInvoiceMarkOverdueCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Mark sent invoices past their due date as Overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			n, err := wb.MarkOverdue()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d invoices marked overdue\n", n)
			return nil
		},
	}
}

func newInvoiceDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			inv, err := wb.Store.Invoice(args[0])
			if err != nil {
				return err
			}
			if _, err := wb.Store.DeleteInvoice(inv.ID); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionDelete, "invoice", inv.ID, inv.Number); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted invoice %s\n", inv.Number)
			return nil
		},
	}
}
