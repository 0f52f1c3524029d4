// Package invoice derives invoice totals and stores invoices with their
// line items.
package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// LineAmount returns quantity × rate for one item.
func LineAmount(item model.InvoiceItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate)
}

// Recalculate returns a copy of items with every amount recomputed.
func Recalculate(items []model.InvoiceItem) []model.InvoiceItem {
	out := make([]model.InvoiceItem, len(items))
	for i, item := range items {
		item.Amount = LineAmount(item)
		out[i] = item
	}
	return out
}

// Subtotal sums the stored item amounts.
func Subtotal(items []model.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// ItemPatch holds the fields to change on an invoice item.
type ItemPatch struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
}

// UpdateItem returns a copy of items with the item matching id patched.
// The item's amount is recomputed when its quantity or rate changes; no
// other item is touched. The bool is false when no item has that id.
func UpdateItem(items []model.InvoiceItem, id string, p ItemPatch) ([]model.InvoiceItem, bool) {
	out := append([]model.InvoiceItem(nil), items...)
	for i, item := range out {
		if item.ID != id {
			continue
		}
		if p.Description != nil {
			item.Description = *p.Description
		}
		if p.Quantity != nil {
			item.Quantity = *p.Quantity
		}
		if p.Rate != nil {
			item.Rate = *p.Rate
		}
		if p.Quantity != nil || p.Rate != nil {
			item.Amount = LineAmount(item)
		}
		out[i] = item
		return out, true
	}
	return out, false
}

// NewItem returns a blank line: quantity 1, rate 0.
func NewItem(id string) model.InvoiceItem {
	return model.InvoiceItem{ID: id, Quantity: decimal.NewFromInt(1), Rate: decimal.Zero, Amount: decimal.Zero}
}

// AddItem appends item with its amount computed.
func AddItem(items []model.InvoiceItem, item model.InvoiceItem) []model.InvoiceItem {
	item.Amount = LineAmount(item)
	out := append([]model.InvoiceItem(nil), items...)
	return append(out, item)
}

// RemoveItem drops the item with the given id. The last remaining item is
// never removed, so an invoice always has at least one line while edited.
func RemoveItem(items []model.InvoiceItem, id string) []model.InvoiceItem {
	if len(items) <= 1 {
		return append([]model.InvoiceItem(nil), items...)
	}
	out := make([]model.InvoiceItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// DropBlank removes items whose description is empty or whitespace.
func DropBlank(items []model.InvoiceItem) []model.InvoiceItem {
	var out []model.InvoiceItem
	for _, item := range items {
		if strings.TrimSpace(item.Description) != "" {
			out = append(out, item)
		}
	}
	return out
}

// Errors returned by the checked item edits.
var (
	ErrItemNotFound     = errors.New("invoice item not found")
	ErrBlankDescription = errors.New("item description must not be blank")
	ErrLastItem         = errors.New("an invoice must keep at least one item")
)

// AppendItem is AddItem for edits that must not silently vanish on save:
// an item with a blank description is refused.
func AppendItem(items []model.InvoiceItem, item model.InvoiceItem) ([]model.InvoiceItem, error) {
	if strings.TrimSpace(item.Description) == "" {
		return nil, ErrBlankDescription
	}
	return AddItem(items, item), nil
}

// PatchItem is UpdateItem with the same rules as AppendItem. Clearing a
// description is refused since the item would be dropped on save.
func PatchItem(items []model.InvoiceItem, id string, p ItemPatch) ([]model.InvoiceItem, error) {
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return nil, ErrBlankDescription
	}
	out, ok := UpdateItem(items, id, p)
	if !ok {
		return nil, fmt.Errorf("invoice item %s: %w", id, ErrItemNotFound)
	}
	return out, nil
}

// DeleteItem is RemoveItem that reports why nothing was removed.
func DeleteItem(items []model.InvoiceItem, id string) ([]model.InvoiceItem, error) {
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("invoice item %s: %w", id, ErrItemNotFound)
	}
	if len(DropBlank(items)) <= 1 {
		return nil, ErrLastItem
	}
	return RemoveItem(items, id), nil
}

// RequireItems fails with ErrLastItem when no item would survive DropBlank.
func RequireItems(items []model.InvoiceItem) error {
	if len(DropBlank(items)) == 0 {
		return ErrLastItem
	}
	return nil
}

// Defaults are the workbook-wide discount and VAT rate used when an
// invoice does not carry its own.
type Defaults struct {
	Discount decimal.Decimal
	VATRate  decimal.Decimal
}

// Totals is the full money breakdown of an invoice.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	AfterDiscount decimal.Decimal `json:"afterDiscount"`
	VATRate       decimal.Decimal `json:"vatRate"`
	VAT           decimal.Decimal `json:"vat"`
	Net           decimal.Decimal `json:"net"`
}

// ComputeTotals layers the discount and VAT over the item subtotal.
// Per-invoice values win over defaults. VAT is rounded to cents; every
// other figure is exact.
func ComputeTotals(inv model.Invoice, d Defaults) Totals {
	discount := d.Discount
	if inv.Discount != nil {
		discount = *inv.Discount
	}
	rate := d.VATRate
	if inv.VATRate != nil {
		rate = *inv.VATRate
	}

	subtotal := Subtotal(inv.Items)
	after := subtotal.Sub(discount)
	vat := after.Mul(rate).Round(2)

	return Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		AfterDiscount: after,
		VATRate:       rate,
		VAT:           vat,
		Net:           after.Add(vat),
	}
}

// Prepare readies an invoice for saving: blank lines are dropped, item
// amounts recomputed and Amount set to the subtotal.
func Prepare(inv model.Invoice) model.Invoice {
	inv = inv.Clone()
	inv.Items = Recalculate(DropBlank(inv.Items))
	inv.Amount = Subtotal(inv.Items)
	return inv
}
