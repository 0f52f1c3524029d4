package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerdash/internal/id"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// NextNumber returns the next invoice number for the year of t, one past
// the highest existing "<prefix>-<year>-<seq>" number.
func NextNumber(invoices []model.Invoice, prefix string, t time.Time) string {
	stem := prefix + "-" + strconv.Itoa(t.Year()) + "-"
	maxSeq := 0
	for _, inv := range invoices {
		rest, ok := strings.CutPrefix(inv.Number, stem)
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return id.FormatInvoiceNumber(prefix, t, maxSeq+1)
}

// PastDue reports whether a sent invoice is past its due date on today.
func PastDue(inv model.Invoice, today time.Time) bool {
	if inv.Status != model.InvoiceSent || inv.DueDate.IsZero() {
		return false
	}
	y, m, d := today.Date()
	return inv.DueDate.Before(time.Date(y, m, d, 0, 0, 0, 0, inv.DueDate.Location()))
}
