package invoice

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Workbook paths, relative to the root.
var (
	File      = filepath.Join("invoices", "invoices.csv")
	ItemsFile = filepath.Join("invoices", "invoice-items.csv")
)

const (
	numFields   = 12
	colID       = 0
	colNumber   = 1
	colCustomer = 2
	colDate     = 3
	colDueDate  = 4
	colAmount   = 5
	colStatus   = 6
	colNotes    = 7
	colDiscount = 8
	colVATRate  = 9
	colExtra    = 10
	colCreated  = 11
)

const (
	numItemFields = 7
	colItemInv    = 0
	colItemID     = 1
	colItemPos    = 2
	colItemDesc   = 3
	colItemQty    = 4
	colItemRate   = 5
	colItemAmount = 6
)

var (
	header     = []string{"invoice_id", "number", "customer_id", "date", "due_date", "amount", "status", "notes", "discount", "vat_rate", "extra", "created"}
	itemHeader = []string{"invoice_id", "item_id", "position", "description", "quantity", "rate", "amount"}
)

// MarshalInvoice converts an Invoice header to a CSV row. Items are
// written separately by MarshalItem.
func MarshalInvoice(inv model.Invoice) []string {
	row := make([]string, numFields)
	row[colID] = inv.ID
	row[colNumber] = inv.Number
	row[colCustomer] = inv.CustomerID
	row[colDate] = csvfile.FormatDate(inv.Date)
	row[colDueDate] = csvfile.FormatDate(inv.DueDate)
	row[colAmount] = inv.Amount.String()
	row[colStatus] = string(inv.Status)
	row[colNotes] = inv.Notes
	row[colDiscount] = csvfile.FormatOptionalDecimal(inv.Discount)
	row[colVATRate] = csvfile.FormatOptionalDecimal(inv.VATRate)
	row[colExtra] = encodeExtra(inv.Extra)
	row[colCreated] = csvfile.FormatTime(inv.Created)
	return row
}

// UnmarshalInvoice converts a CSV row to an Invoice without items.
func UnmarshalInvoice(record []string) (model.Invoice, error) {
	if len(record) != numFields {
		return model.Invoice{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := csvfile.ParseDate(record[colDate])
	if err != nil {
		return model.Invoice{}, err
	}
	due, err := csvfile.ParseDate(record[colDueDate])
	if err != nil {
		return model.Invoice{}, err
	}
	amount, err := csvfile.ParseDecimal(record[colAmount])
	if err != nil {
		return model.Invoice{}, err
	}
	discount, err := csvfile.ParseOptionalDecimal(record[colDiscount])
	if err != nil {
		return model.Invoice{}, err
	}
	vatRate, err := csvfile.ParseOptionalDecimal(record[colVATRate])
	if err != nil {
		return model.Invoice{}, err
	}
	extra, err := decodeExtra(record[colExtra])
	if err != nil {
		return model.Invoice{}, err
	}
	created, err := csvfile.ParseTime(record[colCreated])
	if err != nil {
		return model.Invoice{}, err
	}

	return model.Invoice{
		ID:         record[colID],
		Number:     record[colNumber],
		CustomerID: record[colCustomer],
		Date:       date,
		DueDate:    due,
		Amount:     amount,
		Status:     model.InvoiceStatus(record[colStatus]),
		Notes:      record[colNotes],
		Discount:   discount,
		VATRate:    vatRate,
		Extra:      extra,
		Created:    created,
	}, nil
}

// MarshalItem converts an item at position pos of an invoice to a CSV row.
func MarshalItem(invoiceID string, pos int, item model.InvoiceItem) []string {
	row := make([]string, numItemFields)
	row[colItemInv] = invoiceID
	row[colItemID] = item.ID
	row[colItemPos] = strconv.Itoa(pos)
	row[colItemDesc] = item.Description
	row[colItemQty] = item.Quantity.String()
	row[colItemRate] = item.Rate.String()
	row[colItemAmount] = item.Amount.String()
	return row
}

// WriteInvoices writes invoices.csv and invoice-items.csv.
func WriteInvoices(headers, items io.Writer, invoices []model.Invoice) error {
	hw := csv.NewWriter(headers)
	iw := csv.NewWriter(items)

	if err := hw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := iw.Write(itemHeader); err != nil {
		return fmt.Errorf("writing item header: %w", err)
	}

	for i, inv := range invoices {
		if err := hw.Write(MarshalInvoice(inv)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
		for pos, item := range inv.Items {
			if err := iw.Write(MarshalItem(inv.ID, pos, item)); err != nil {
				return fmt.Errorf("writing item %s/%d: %w", inv.ID, pos, err)
			}
		}
	}

	hw.Flush()
	iw.Flush()
	if err := hw.Error(); err != nil {
		return err
	}
	return iw.Error()
}

// ReadInvoices reads invoice headers and attaches their items in position
// order. Items pointing at unknown invoices are ignored.
func ReadInvoices(headers, items io.Reader) ([]model.Invoice, error) {
	hr := csv.NewReader(headers)
	hr.FieldsPerRecord = numFields
	records, err := hr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoices CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var invoices []model.Invoice
	index := make(map[string]int)
	for i, rec := range records[1:] {
		inv, err := UnmarshalInvoice(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		index[inv.ID] = len(invoices)
		invoices = append(invoices, inv)
	}

	if items == nil {
		return invoices, nil
	}

	ir := csv.NewReader(items)
	ir.FieldsPerRecord = numItemFields
	itemRecords, err := ir.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoice items CSV: %w", err)
	}
	if len(itemRecords) == 0 {
		return invoices, nil
	}

	placed := make(map[int][]positioned)
	for i, rec := range itemRecords[1:] {
		qty, err := csvfile.ParseDecimal(rec[colItemQty])
		if err != nil {
			return nil, fmt.Errorf("item row %d: %w", i+2, err)
		}
		rate, err := csvfile.ParseDecimal(rec[colItemRate])
		if err != nil {
			return nil, fmt.Errorf("item row %d: %w", i+2, err)
		}
		amount, err := csvfile.ParseDecimal(rec[colItemAmount])
		if err != nil {
			return nil, fmt.Errorf("item row %d: %w", i+2, err)
		}
		pos, err := strconv.Atoi(rec[colItemPos])
		if err != nil {
			return nil, fmt.Errorf("item row %d: invalid position %q", i+2, rec[colItemPos])
		}
		n, ok := index[rec[colItemInv]]
		if !ok {
			continue
		}
		placed[n] = append(placed[n], positioned{pos: pos, item: model.InvoiceItem{
			ID:          rec[colItemID],
			Description: rec[colItemDesc],
			Quantity:    qty,
			Rate:        rate,
			Amount:      amount,
		}})
	}

	for n, list := range placed {
		sort.SliceStable(list, func(a, b int) bool { return list[a].pos < list[b].pos })
		items := make([]model.InvoiceItem, len(list))
		for i, p := range list {
			items[i] = p.item
		}
		invoices[n].Items = items
	}
	return invoices, nil
}

type positioned struct {
	pos  int
	item model.InvoiceItem
}

// Load reads invoices and their items from a workbook root.
func Load(repoRoot string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	_, err := csvfile.Read(filepath.Join(repoRoot, File), func(hr io.Reader) error {
		found, err := csvfile.Read(filepath.Join(repoRoot, ItemsFile), func(ir io.Reader) error {
			var err error
			invoices, err = ReadInvoices(hr, ir)
			return err
		})
		if err != nil {
			return err
		}
		if !found {
			invoices, err = ReadInvoices(hr, nil)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading invoices: %w", err)
	}
	return invoices, nil
}

// Save writes invoices and their items under a workbook root.
func Save(repoRoot string, invoices []model.Invoice) error {
	err := csvfile.Write(filepath.Join(repoRoot, File), func(hw io.Writer) error {
		return csvfile.Write(filepath.Join(repoRoot, ItemsFile), func(iw io.Writer) error {
			return WriteInvoices(hw, iw, invoices)
		})
	})
	if err != nil {
		return fmt.Errorf("saving invoices: %w", err)
	}
	return nil
}

func encodeExtra(extra map[string]string) string {
	if len(extra) == 0 {
		return ""
	}
	v := make(url.Values, len(extra))
	for k, val := range extra {
		v.Set(k, val)
	}
	return v.Encode()
}

func decodeExtra(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	v, err := url.ParseQuery(s)
	if err != nil {
		return nil, fmt.Errorf("parsing extra fields %q: %w", s, err)
	}
	extra := make(map[string]string, len(v))
	for k := range v {
		extra[k] = v.Get(k)
	}
	return extra, nil
}
