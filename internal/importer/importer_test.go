package importer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

func parseTestdata(t *testing.T) []model.BankTransaction {
	t.Helper()
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	rows, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	return rows
}

func TestChaseParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, txns, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, "-4.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.Equal(t, 2025, txns[0].Date.Year())
	assert.Equal(t, 1, int(txns[0].Date.Month()))
	assert.Equal(t, 3, txns[0].Date.Day())

	// Fourth: ACME income (positive)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.True(t, txns[3].Amount.IsPositive())
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))
}

func TestChaseParser_DateParsing(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	// Jan 22
	last := txns[5]
	assert.Equal(t, 2025, last.Date.Year())
	assert.Equal(t, 1, int(last.Date.Month()))
	assert.Equal(t, 22, last.Date.Day())
}

func TestChaseParser_NegativePositiveAmounts(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	for _, txn := range txns {
		if txn.Description == "ACME CONSULTING INVOICE 1042" {
			assert.True(t, txn.Amount.IsPositive())
		} else {
			assert.True(t, txn.Amount.IsNegative(), "expected negative for %s", txn.Description)
		}
	}
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_BadDate(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestChaseParser_BadAmount(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestChaseParser_Format(t *testing.T) {
	p := &ChaseParser{}
	assert.Equal(t, "chase", p.Format())
}

func TestChaseParser_Reference(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	// Reference format: chase_YYYYMMDD_<prefix>
	assert.Equal(t, "chase_20250103_GITHUBPROS", txns[0].Reference)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	p := r.Get("chase")
	require.NotNil(t, p)
	assert.Equal(t, "chase", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("chase"))
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)

	// Source gone.
	_, err = os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	// Destination exists.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestMarkProcessed_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "a.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "a.csv")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "import", "processed"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParseFile(t *testing.T) {
	rows, err := ParseFile(&ChaseParser{}, "../../testdata/chase_checking.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	_, err = ParseFile(&ChaseParser{}, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestToTransactions(t *testing.T) {
	rows := parseTestdata(t)
	res := ToTransactions(rows, nil, Options{BankAccount: "1100", ClearingAccount: "6900"})
	require.Len(t, res.Transactions, 6)
	assert.Empty(t, res.Duplicates)

	github := res.Transactions[0]
	assert.Equal(t, "6900", github.DebitAccount, "money out debits clearing")
	assert.Equal(t, "1100", github.CreditAccount)
	assert.True(t, decimal.RequireFromString("4").Equal(github.Amount), "amount stored positive")
	assert.Equal(t, model.TxnPending, github.Status)
	assert.Equal(t, "BANK-20250103-001", github.Reference)
	assert.Empty(t, github.ID, "ids are assigned by the store")

	acme := res.Transactions[3]
	assert.Equal(t, "1100", acme.DebitAccount, "money in debits the bank")
	assert.Equal(t, "6900", acme.CreditAccount)
	assert.True(t, decimal.RequireFromString("3500").Equal(acme.Amount))
}

func TestToTransactions_SkipsDuplicates(t *testing.T) {
	rows := parseTestdata(t)
	opts := Options{BankAccount: "1100", ClearingAccount: "6900"}
	first := ToTransactions(rows, nil, opts)

	again := ToTransactions(rows, first.Transactions, opts)
	assert.Empty(t, again.Transactions)
	assert.Len(t, again.Duplicates, 6)
}

func TestToTransactions_ContinuesSequence(t *testing.T) {
	rows := parseTestdata(t)[:1]
	existing := []model.Transaction{
		{Reference: "BANK-20250103-001", Description: "earlier"},
		{Reference: "BANK-20250103-004", Description: "earlier"},
		{Reference: "OTHER-20250103-009", Description: "other prefix"},
		{Reference: "manual", Description: "free text"},
	}
	res := ToTransactions(rows, existing, Options{BankAccount: "1100", ClearingAccount: "6900"})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "BANK-20250103-005", res.Transactions[0].Reference)

	res = ToTransactions(rows, existing, Options{BankAccount: "1100", ClearingAccount: "6900", ReferencePrefix: "OTHER"})
	assert.Equal(t, "OTHER-20250103-010", res.Transactions[0].Reference)
}

func TestToTransactions_SameDaySequence(t *testing.T) {
	day := parseTestdata(t)[0].Date
	rows := []model.BankTransaction{
		{Date: day, Description: "A", Amount: decimal.NewFromInt(-1)},
		{Date: day, Description: "B", Amount: decimal.NewFromInt(-2)},
	}
	res := ToTransactions(rows, nil, Options{BankAccount: "1100", ClearingAccount: "6900"})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "BANK-20250103-001", res.Transactions[0].Reference)
	assert.Equal(t, "BANK-20250103-002", res.Transactions[1].Reference)
}

type namedParser string

func (p namedParser) Parse(io.Reader) ([]model.BankTransaction, error) { return nil, nil }
func (p namedParser) Format() string                                   { return string(p) }

func TestRegistry_Formats(t *testing.T) {
	assert.Equal(t, []string{"chase"}, DefaultRegistry().Formats())

	r := DefaultRegistry()
	for _, name := range []string{"wells", "amex", "boa", "citi"} {
		r.Register(namedParser(name))
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"amex", "boa", "chase", "citi", "wells"}, r.Formats())
	}
}
