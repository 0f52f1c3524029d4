package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// StatusAll disables status filtering in Search.
const StatusAll = "All"

// Search returns invoices whose number or customer name contains term
// (ignoring case) and whose status equals status. An empty term or a status
// of "" or StatusAll matches everything.
func Search(invoices []model.Invoice, customers []model.Customer, term, status string) []model.Invoice {
	term = strings.ToLower(term)
	var out []model.Invoice
	for _, inv := range invoices {
		matchesSearch := term == "" || strings.Contains(strings.ToLower(inv.Number), term)
		if !matchesSearch {
			if c, ok := crm.Find(customers, inv.CustomerID); ok {
				matchesSearch = strings.Contains(strings.ToLower(c.Name), term)
			}
		}
		matchesStatus := status == "" || status == StatusAll || string(inv.Status) == status
		if matchesSearch && matchesStatus {
			out = append(out, inv)
		}
	}
	return out
}

// Find returns the invoice with the given id.
func Find(invoices []model.Invoice, id string) (model.Invoice, bool) {
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return model.Invoice{}, false
}

// CountByStatus tallies invoices per status.
func CountByStatus(invoices []model.Invoice) map[model.InvoiceStatus]int {
	counts := make(map[model.InvoiceStatus]int)
	for _, inv := range invoices {
		counts[inv.Status]++
	}
	return counts
}

// TotalAmount sums Amount over invoices.
func TotalAmount(invoices []model.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Amount)
	}
	return total
}

// ForCustomer returns the invoices billed to a customer.
func ForCustomer(invoices []model.Invoice, customerID string) []model.Invoice {
	var out []model.Invoice
	for _, inv := range invoices {
		if inv.CustomerID == customerID {
			out = append(out, inv)
		}
	}
	return out
}

// CustomerName returns the name of the invoice's customer, or
// crm.UnknownCustomer when the customer has been deleted.
func CustomerName(customers []model.Customer, customerID string) string {
	return crm.Name(customers, customerID)
}
