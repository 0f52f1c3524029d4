package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// File is the transactions path relative to the workbook root.
var File = filepath.Join("ledger", "transactions.csv")

const (
	numFields   = 10
	colID       = 0
	colDate     = 1
	colRef      = 2
	colDesc     = 3
	colDebit    = 4
	colCredit   = 5
	colAmount   = 6
	colCustomer = 7
	colStatus   = 8
	colCreated  = 9
)

// Header is the CSV header for transactions.csv.
var Header = []string{"transaction_id", "date", "reference", "description", "debit_account", "credit_account", "amount", "customer_id", "status", "created"}

// ReadTransactions reads transactions.csv.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions.csv (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = csvfile.FormatDate(txn.Date)
	row[colRef] = txn.Reference
	row[colDesc] = txn.Description
	row[colDebit] = txn.DebitAccount
	row[colCredit] = txn.CreditAccount
	row[colAmount] = txn.Amount.String()
	row[colCustomer] = txn.CustomerID
	row[colStatus] = string(txn.Status)
	row[colCreated] = csvfile.FormatTime(txn.Created)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := csvfile.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := csvfile.ParseDecimal(record[colAmount])
	if err != nil {
		return model.Transaction{}, err
	}
	created, err := csvfile.ParseTime(record[colCreated])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:            record[colID],
		Date:          date,
		Reference:     record[colRef],
		Description:   record[colDesc],
		DebitAccount:  record[colDebit],
		CreditAccount: record[colCredit],
		Amount:        amount,
		CustomerID:    record[colCustomer],
		Status:        model.TransactionStatus(record[colStatus]),
		Created:       created,
	}, nil
}

// Load reads the transactions from a workbook root.
func Load(repoRoot string) ([]model.Transaction, error) {
	var txns []model.Transaction
	_, err := csvfile.Read(filepath.Join(repoRoot, File), func(r io.Reader) error {
		var err error
		txns, err = ReadTransactions(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return txns, nil
}

// Save writes the transactions under a workbook root.
func Save(repoRoot string, txns []model.Transaction) error {
	err := csvfile.Write(filepath.Join(repoRoot, File), func(w io.Writer) error {
		return WriteTransactions(w, txns)
	})
	if err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}
