package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerdash/internal/commands"
	"github.com/cleared-dev/ledgerdash/internal/config"
)

var idPattern = regexp.MustCompile(`\(([0-9]+)\)`)

// run executes the CLI in-process and returns combined stdout and stderr.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func idFrom(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func newWorkbook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, "init", dir, "--name", "Test Biz")
	return dir
}

func TestCustomerAndInvoice(t *testing.T) {
	dir := newWorkbook(t)

	out := mustRun(t, "customer", "add", "--repo", dir, "--name", "John Smith", "--company", "Smith Motors")
	customerID := idFrom(t, out)

	out = mustRun(t, "customer", "list", "--repo", dir, "-s", "smith")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "1 customers: 1 active")

	out = mustRun(t, "invoice", "create", "--repo", dir,
		"--customer", customerID,
		"--item", "Brake service:2:1180",
		"--item", "Parts:1:200",
		"--extra", "vehicle=AB12CDE")
	assert.Contains(t, out, "net total 2688.00")
	invoiceID := idFrom(t, out)

	out = mustRun(t, "invoice", "list", "--repo", dir)
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "2560.00")

	out = mustRun(t, "invoice", "show", "--repo", dir, invoiceID)
	assert.Contains(t, out, "Bill to: John Smith")
	assert.Contains(t, out, "vehicle: AB12CDE")
	assert.Contains(t, out, "VAT 5%")
	assert.Contains(t, out, "2688.00")

	mustRun(t, "invoice", "send", "--repo", dir, invoiceID)
	out = mustRun(t, "invoice", "list", "--repo", dir, "--status", "Sent")
	assert.Contains(t, out, "1 shown")

	// Deleting the customer leaves the invoice behind.
	mustRun(t, "customer", "delete", "--repo", dir, customerID)
	out = mustRun(t, "invoice", "show", "--repo", dir, invoiceID)
	assert.Contains(t, out, "Bill to: Unknown Customer")
}

func TestInvoiceItems(t *testing.T) {
	dir := newWorkbook(t)

	out := mustRun(t, "invoice", "create", "--repo", dir, "--customer", "c1", "--item", "Labor:1:100", "--vat", "0")
	assert.Contains(t, out, "warning: customer c1 not found")
	invoiceID := idFrom(t, out)

	out = mustRun(t, "invoice", "add-item", "--repo", dir, invoiceID, "--desc", "Parts", "--qty", "3", "--rate", "20")
	itemID := regexp.MustCompile(`Added item ([0-9]+)`).FindStringSubmatch(out)[1]

	out = mustRun(t, "invoice", "show", "--repo", dir, invoiceID)
	assert.Contains(t, out, "160.00")

	mustRun(t, "invoice", "remove-item", "--repo", dir, invoiceID, itemID)
	out = mustRun(t, "invoice", "show", "--repo", dir, invoiceID)
	assert.NotContains(t, out, "Parts")

	_, err := run(t, "invoice", "add-item", "--repo", dir, invoiceID, "--desc", " ")
	assert.ErrorContains(t, err, "must not be blank")

	_, err = run(t, "invoice", "remove-item", "--repo", dir, invoiceID, "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestTxnAndCheck(t *testing.T) {
	dir := newWorkbook(t)

	out := mustRun(t, "txn", "add", "--repo", dir,
		"--date", "2025-01-15", "--desc", "Office supplies", "--debit", "6000", "--credit", "1100", "--amount", "142.50")
	assert.Contains(t, out, "Office supplies, 142.50")
	txnID := idFrom(t, out)
	assert.NotContains(t, out, "warning")

	out = mustRun(t, "txn", "add", "--repo", dir, "--desc", "Typo", "--debit", "9999", "--credit", "1100", "--amount", "10")
	assert.Contains(t, out, `warning: unknown debit account "9999"`)

	out = mustRun(t, "txn", "list", "--repo", dir, "-s", "office")
	assert.Contains(t, out, "6000 - Operating Expenses")
	assert.Contains(t, out, "1100 - Business Checking")

	mustRun(t, "txn", "approve", "--repo", dir, txnID)
	out = mustRun(t, "txn", "list", "--repo", dir, "--status", "Approved")
	assert.Contains(t, out, "Office supplies")
	assert.NotContains(t, out, "Typo")

	out = mustRun(t, "check", "--repo", dir)
	assert.Contains(t, out, "2 transactions checked, 1 issues")

	mustRun(t, "txn", "delete", "--repo", dir, txnID)
	out = mustRun(t, "txn", "list", "--repo", dir)
	assert.NotContains(t, out, "Office supplies")
	assert.Contains(t, out, "1 transactions: 1 pending, 0 approved, 0 rejected")

	_, err := run(t, "txn", "delete", "--repo", dir, txnID)
	assert.Error(t, err)
}

func TestReports(t *testing.T) {
	dir := newWorkbook(t)
	mustRun(t, "account", "update", "--repo", dir, "1000", "--balance", "5000")
	mustRun(t, "account", "update", "--repo", dir, "3000", "--balance", "5000")

	out := mustRun(t, "report", "balance-sheet", "--repo", dir)
	assert.Contains(t, out, "TOTAL ASSETS")
	assert.NotContains(t, out, "out of balance")

	out = mustRun(t, "report", "trial-balance", "--repo", dir)
	assert.Contains(t, out, "TOTAL")
	assert.NotContains(t, out, "differ")

	out = mustRun(t, "report", "cash-flow", "--repo", dir, "--json")
	var cf map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cf), out)
	assert.Equal(t, "0", cf["netIncrease"])

	out = mustRun(t, "dashboard", "--repo", dir)
	assert.Contains(t, out, "5000.00")
}

func TestKPIs(t *testing.T) {
	dir := newWorkbook(t)

	mustRun(t, "kpi", "add", "--repo", dir, "--name", "Cash Flow", "--value", "50", "--target", "100", "--unit", "%")
	out := mustRun(t, "kpi", "list", "--repo", dir)
	assert.Contains(t, out, "poor")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "below target 1")

	_, err := run(t, "kpi", "add", "--repo", dir, "--name", "X", "--trend", "sideways")
	assert.Error(t, err)
}

func TestInsightsCommand(t *testing.T) {
	dir := newWorkbook(t)

	out := mustRun(t, "insights", "--repo", dir, "--category", "Collections")
	assert.Contains(t, out, "Accounts Receivable Alert")
	assert.NotContains(t, out, "Cash Flow Optimization")
	assert.Contains(t, out, "3 insights: 1 high")
}

func TestImportCommand(t *testing.T) {
	dir := newWorkbook(t)

	out, err := run(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, out, "no bank_accounts configured")

	cfg, err := config.Load(config.Path(dir))
	require.NoError(t, err)
	cfg.BankAccounts = []config.BankAccount{{Name: "Checking", Format: "chase", LastFour: "1234", Account: "1100"}}
	require.NoError(t, config.Save(config.Path(dir), cfg))

	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "jan.csv"), data, 0o644))

	out = mustRun(t, "import", "--repo", dir)
	assert.Contains(t, out, "jan.csv: 6 transactions added, 0 duplicates skipped")

	out = mustRun(t, "txn", "list", "--repo", dir, "--status", "Pending")
	assert.Contains(t, out, "ACME CONSULTING INVOICE 1042")
	assert.Contains(t, out, "BANK-20250115-001")

	out = mustRun(t, "import", "--repo", dir)
	assert.Contains(t, out, "Nothing to import")

	out = mustRun(t, "activity", "--repo", dir, "-n", "1")
	assert.Contains(t, out, "import")
}

func TestNotWorkbook(t *testing.T) {
	_, err := run(t, "dashboard", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a ledgerdash workbook")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "--version")
	assert.Contains(t, out, "dev (commit: none")
}
