package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the billing state of an invoice. Any status may be set
// at any time, including Paid back to Draft.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceSent    InvoiceStatus = "Sent"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// InvoiceItem is a single billed line.
type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"` // quantity × rate
}

// Invoice bills a customer for an ordered list of items.
//
// Discount is a fixed amount and VATRate a fraction (0.05 = 5%). When nil,
// the workbook defaults apply. Extra carries business-specific fields such
// as a job number or vehicle registration.
type Invoice struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	CustomerID string            `json:"customerId"`
	Date       time.Time         `json:"date"`
	DueDate    time.Time         `json:"dueDate"`
	Amount     decimal.Decimal   `json:"amount"`
	Status     InvoiceStatus     `json:"status"`
	Items      []InvoiceItem     `json:"items"`
	Notes      string            `json:"notes,omitempty"`
	Discount   *decimal.Decimal  `json:"discount,omitempty"`
	VATRate    *decimal.Decimal  `json:"vatRate,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
	Created    time.Time         `json:"created"`
}

// Clone returns a deep copy of the invoice.
func (inv Invoice) Clone() Invoice {
	if inv.Items != nil {
		inv.Items = append([]InvoiceItem(nil), inv.Items...)
	}
	if inv.Extra != nil {
		extra := make(map[string]string, len(inv.Extra))
		for k, v := range inv.Extra {
			extra[k] = v
		}
		inv.Extra = extra
	}
	return inv
}

// InvoicePatch holds the fields to change on an invoice. Extra keys are
// merged into the existing map; an empty value deletes the key.
type InvoicePatch struct {
	Number     *string           `json:"number,omitempty"`
	CustomerID *string           `json:"customerId,omitempty"`
	Date       *time.Time        `json:"date,omitempty"`
	DueDate    *time.Time        `json:"dueDate,omitempty"`
	Amount     *decimal.Decimal  `json:"amount,omitempty"`
	Status     *InvoiceStatus    `json:"status,omitempty"`
	Items      *[]InvoiceItem    `json:"items,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
	Discount   *decimal.Decimal  `json:"discount,omitempty"`
	VATRate    *decimal.Decimal  `json:"vatRate,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Apply returns a copy of inv with the non-nil patch fields merged in.
func (p InvoicePatch) Apply(inv Invoice) Invoice {
	inv = inv.Clone()
	if p.Number != nil {
		inv.Number = *p.Number
	}
	if p.CustomerID != nil {
		inv.CustomerID = *p.CustomerID
	}
	if p.Date != nil {
		inv.Date = *p.Date
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Amount != nil {
		inv.Amount = *p.Amount
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.Items != nil {
		inv.Items = append([]InvoiceItem(nil), (*p.Items)...)
	}
	if p.Notes != nil {
		inv.Notes = *p.Notes
	}
	if p.Discount != nil {
		d := *p.Discount
		inv.Discount = &d
	}
	if p.VATRate != nil {
		r := *p.VATRate
		inv.VATRate = &r
	}
	for k, v := range p.Extra {
		if inv.Extra == nil {
			inv.Extra = make(map[string]string)
		}
		if v == "" {
			delete(inv.Extra, k)
			continue
		}
		inv.Extra[k] = v
	}
	return inv
}
