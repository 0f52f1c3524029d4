package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// File is the chart of accounts path relative to the workbook root.
var File = filepath.Join("accounts", "chart-of-accounts.csv")

const (
	numFields   = 9
	colID       = 0
	colCode     = 1
	colName     = 2
	colType     = 3
	colCategory = 4
	colBalance  = 5
	colParent   = 6
	colActive   = 7
	colCreated  = 8
)

var header = []string{"account_id", "code", "name", "type", "category", "balance", "parent_id", "is_active", "created"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colCategory] = acct.Category
	row[colBalance] = acct.Balance.String()
	row[colParent] = acct.ParentID
	row[colActive] = strconv.FormatBool(acct.IsActive)
	row[colCreated] = csvfile.FormatTime(acct.Created)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	balance, err := csvfile.ParseDecimal(record[colBalance])
	if err != nil {
		return model.Account{}, err
	}

	active, err := csvfile.ParseBool(record[colActive])
	if err != nil {
		return model.Account{}, err
	}

	created, err := csvfile.ParseTime(record[colCreated])
	if err != nil {
		return model.Account{}, err
	}

	return model.Account{
		ID:       record[colID],
		Code:     record[colCode],
		Name:     record[colName],
		Type:     model.AccountType(record[colType]),
		Category: record[colCategory],
		Balance:  balance,
		ParentID: record[colParent],
		IsActive: active,
		Created:  created,
	}, nil
}

// Load reads the chart of accounts from a workbook root. A workbook
// without the file has no accounts.
func Load(repoRoot string) ([]model.Account, error) {
	var accts []model.Account
	_, err := csvfile.Read(filepath.Join(repoRoot, File), func(r io.Reader) error {
		var err error
		accts, err = ReadAccounts(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}
	return accts, nil
}

// Save writes the chart of accounts under a workbook root.
func Save(repoRoot string, accts []model.Account) error {
	err := csvfile.Write(filepath.Join(repoRoot, File), func(w io.Writer) error {
		return WriteAccounts(w, accts)
	})
	if err != nil {
		return fmt.Errorf("saving chart of accounts: %w", err)
	}
	return nil
}
