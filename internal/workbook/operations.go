package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/config"
	"github.com/cleared-dev/ledgerdash/internal/importer"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Today is the workbook clock truncated to a UTC calendar day.
func (w *Workbook) Today() time.Time {
	y, m, d := w.ids.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InvoiceDefaults fills in what a new invoice left blank: the next number
// in the configured series, today's date, a due date due_days later and
// Draft status.
func (w *Workbook) InvoiceDefaults(inv model.Invoice) model.Invoice {
	if inv.Date.IsZero() {
		inv.Date = w.Today()
	}
	if inv.Number == "" {
		prefix := w.Config.Invoice.NumberPrefix
		if prefix == "" {
			prefix = "INV"
		}
		inv.Number = invoice.NextNumber(w.Store.Invoices(), prefix, inv.Date)
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.Date.AddDate(0, 0, w.Config.Invoice.DueDays)
	}
	if inv.Status == "" {
		inv.Status = model.InvoiceDraft
	}
	return inv
}

// MarkOverdue moves Sent invoices past their due date to Overdue and
// returns how many changed.
func (w *Workbook) MarkOverdue() (int, error) {
	today := w.Today()
	n := 0
	for _, inv := range w.Store.Invoices() {
		if !invoice.PastDue(inv, today) {
			continue
		}
		if _, err := w.Store.SetInvoiceStatus(inv.ID, model.InvoiceOverdue); err != nil {
			return n, err
		}
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, w.Record(activity.ActionUpdate, "invoice", "", strconv.Itoa(n)+" marked overdue")
}

// ImportResult summarizes one imported bank file.
type ImportResult struct {
	File       string
	Added      []model.Transaction
	Duplicates int
}

// Import converts a bank CSV into pending transactions posted between the
// bank account and the clearing account, then moves the file to
// import/processed.
func (w *Workbook) Import(file importer.FileInfo, bank config.BankAccount, reg *importer.Registry) (ImportResult, error) {
	format := bank.Format
	if format == "" {
		format = "chase"
	}
	p := reg.Get(format)
	if p == nil {
		return ImportResult{}, fmt.Errorf("no parser for bank format %q (known: %s)", format, strings.Join(reg.Formats(), ", "))
	}

	rows, err := importer.ParseFile(p, file.Path)
	if err != nil {
		return ImportResult{}, err
	}

	res := importer.ToTransactions(rows, w.Store.Transactions(), importer.Options{
		BankAccount:     bank.Account,
		ClearingAccount: w.Config.Import.ClearingAccount,
		ReferencePrefix: w.Config.Import.ReferencePrefix,
	})

	out := ImportResult{File: file.Name, Duplicates: len(res.Duplicates)}
	for _, t := range res.Transactions {
		added, _ := w.Store.AddTransaction(t)
		out.Added = append(out.Added, added)
	}

	if err := importer.MarkProcessed(w.Dir, file.Name); err != nil {
		return out, err
	}
	details := fmt.Sprintf("%s: %d added, %d duplicates", file.Name, len(out.Added), out.Duplicates)
	if err := w.Record(activity.ActionImport, "transaction", "", details); err != nil {
		return out, err
	}
	w.log.Info().
		Str("file", file.Name).
		Int("added", len(out.Added)).
		Int("duplicates", out.Duplicates).
		Msg("imported bank file")
	return out, nil
}
