package crm

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// File is the customer list path relative to the workbook root.
var File = filepath.Join("crm", "customers.csv")

const (
	numFields      = 11
	colID          = 0
	colName        = 1
	colEmail       = 2
	colPhone       = 3
	colAddress     = 4
	colCompany     = 5
	colStatus      = 6
	colRevenue     = 7
	colLastContact = 8
	colNotes       = 9
	colCreated     = 10
)

var header = []string{"customer_id", "name", "email", "phone", "address", "company", "status", "total_revenue", "last_contact", "notes", "created"}

// ReadCustomers reads customers.csv.
func ReadCustomers(r io.Reader) ([]model.Customer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading customers CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var customers []model.Customer
	for i, rec := range records[1:] {
		c, err := UnmarshalCustomer(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// WriteCustomers writes customers.csv.
func WriteCustomers(w io.Writer, customers []model.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range customers {
		if err := cw.Write(MarshalCustomer(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCustomer converts a Customer to a CSV row.
func MarshalCustomer(c model.Customer) []string {
	row := make([]string, numFields)
	row[colID] = c.ID
	row[colName] = c.Name
	row[colEmail] = c.Email
	row[colPhone] = c.Phone
	row[colAddress] = c.Address
	row[colCompany] = c.Company
	row[colStatus] = string(c.Status)
	row[colRevenue] = c.TotalRevenue.String()
	row[colLastContact] = csvfile.FormatDate(c.LastContact)
	row[colNotes] = c.Notes
	row[colCreated] = csvfile.FormatTime(c.Created)
	return row
}

// UnmarshalCustomer converts a CSV row to a Customer.
func UnmarshalCustomer(record []string) (model.Customer, error) {
	if len(record) != numFields {
		return model.Customer{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	revenue, err := csvfile.ParseDecimal(record[colRevenue])
	if err != nil {
		return model.Customer{}, err
	}
	lastContact, err := csvfile.ParseDate(record[colLastContact])
	if err != nil {
		return model.Customer{}, err
	}
	created, err := csvfile.ParseTime(record[colCreated])
	if err != nil {
		return model.Customer{}, err
	}

	return model.Customer{
		ID:           record[colID],
		Name:         record[colName],
		Email:        record[colEmail],
		Phone:        record[colPhone],
		Address:      record[colAddress],
		Company:      record[colCompany],
		Status:       model.CustomerStatus(record[colStatus]),
		TotalRevenue: revenue,
		LastContact:  lastContact,
		Notes:        record[colNotes],
		Created:      created,
	}, nil
}

// Load reads the customer list from a workbook root.
func Load(repoRoot string) ([]model.Customer, error) {
	var customers []model.Customer
	_, err := csvfile.Read(filepath.Join(repoRoot, File), func(r io.Reader) error {
		var err error
		customers, err = ReadCustomers(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading customers: %w", err)
	}
	return customers, nil
}

// Save writes the customer list under a workbook root.
func Save(repoRoot string, customers []model.Customer) error {
	err := csvfile.Write(filepath.Join(repoRoot, File), func(w io.Writer) error {
		return WriteCustomers(w, customers)
	})
	if err != nil {
		return fmt.Errorf("saving customers: %w", err)
	}
	return nil
}
