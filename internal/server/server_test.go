package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

func setupServer(t *testing.T) (*Server, *workbook.Workbook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	wb, err := workbook.Create(t.TempDir(), "Test Biz", "llc_single_member")
	require.NoError(t, err)
	return New(wb), wb
}

func performRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestDashboard(t *testing.T) {
	s, _ := setupServer(t)

	rec := performRequest(s.Handler(), "GET", "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Test Biz", body["business"])
	assert.Len(t, body["highPriorityInsights"], 1)
	assert.Len(t, body["recentActivity"], 1)
	totals := body["totals"].(map[string]any)
	assert.Equal(t, "0", totals["netIncome"])
}

func TestReports(t *testing.T) {
	s, _ := setupServer(t)

	for _, path := range []string{"balance-sheet", "income-statement", "trial-balance", "cash-flow"} {
		t.Run(path, func(t *testing.T) {
			rec := performRequest(s.Handler(), "GET", "/api/v1/reports/"+path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	rec := performRequest(s.Handler(), "GET", "/api/v1/reports/trial-balance", nil)
	body := decode(t, rec)
	assert.Len(t, body["rows"], 12)
	assert.Equal(t, true, body["balanced"])
}

func TestAccounts(t *testing.T) {
	s, wb := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/accounts", map[string]any{
		"code": "1010", "name": "Petty Cash", "type": "Asset", "category": "Current Assets", "balance": "250",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, true, created["isActive"])
	id := created["id"].(string)

	rec = performRequest(h, "GET", "/api/v1/accounts?type=Asset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["accounts"], 5)
	assert.Equal(t, "250", body["totals"].(map[string]any)["assets"])

	rec = performRequest(h, "PATCH", "/api/v1/accounts/"+id, map[string]any{"balance": "300"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "300", decode(t, rec)["balance"])

	rec = performRequest(h, "DELETE", "/api/v1/accounts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, wb.Store.Accounts(), 12)

	rec = performRequest(h, "DELETE", "/api/v1/accounts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAccount_BadType(t *testing.T) {
	s, _ := setupServer(t)

	rec := performRequest(s.Handler(), "POST", "/api/v1/accounts", map[string]any{"name": "X", "type": "Income"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown account type")
}

func TestCustomers(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/customers", map[string]any{"name": "John Smith", "email": "john@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "Active", created["status"])
	id := created["id"].(string)

	rec = performRequest(h, "GET", "/api/v1/customers?q=JOHN", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["customers"], 1)

	rec = performRequest(h, "GET", "/api/v1/customers?q=nobody", nil)
	assert.Equal(t, []any{}, decode(t, rec)["customers"])

	rec = performRequest(h, "PATCH", "/api/v1/customers/"+id, map[string]any{"phone": "555-0100"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555-0100", decode(t, rec)["phone"])

	rec = performRequest(h, "DELETE", "/api/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(h, "GET", "/api/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "not found")
}

func TestCustomers_BadJSON(t *testing.T) {
	s, _ := setupServer(t)

	req := httptest.NewRequest("POST", "/api/v1/customers", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func createInvoice(t *testing.T, h http.Handler) map[string]any {
	t.Helper()
	rec := performRequest(h, "POST", "/api/v1/customers", map[string]any{"name": "John Smith"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decode(t, rec)["id"]

	rec = performRequest(h, "POST", "/api/v1/invoices", map[string]any{
		"customerId": customerID,
		"items": []map[string]any{
			{"description": "Brake service", "quantity": 2, "rate": 1180},
			{"description": "Parts", "quantity": 1, "rate": 200},
			{"description": "  ", "quantity": 1, "rate": 5},
		},
		"extra": map[string]string{"vehicle": "AB12 CDE"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func TestInvoiceCreate(t *testing.T) {
	s, _ := setupServer(t)

	inv := createInvoice(t, s.Handler())
	year := strconv.Itoa(time.Now().UTC().Year())
	assert.Equal(t, "INV-"+year+"-000001", inv["number"])
	assert.Equal(t, "Draft", inv["status"])
	assert.Equal(t, "John Smith", inv["customerName"])
	assert.Equal(t, "2560", inv["amount"])
	assert.Len(t, inv["items"], 2)
	assert.Equal(t, "AB12 CDE", inv["extra"].(map[string]any)["vehicle"])

	totals := inv["totals"].(map[string]any)
	assert.Equal(t, "2560", totals["subtotal"])
	assert.Equal(t, "128", totals["vat"])
	assert.Equal(t, "2688", totals["net"])
}

func TestInvoiceItems(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	inv := createInvoice(t, h)
	id := inv["id"].(string)
	items := inv["items"].([]any)
	first := items[0].(map[string]any)["id"].(string)
	second := items[1].(map[string]any)["id"].(string)

	rec := performRequest(h, "PATCH", "/api/v1/invoices/"+id+"/items/"+first, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.Equal(t, "3740", got["amount"])
	assert.Equal(t, "3540", got["items"].([]any)[0].(map[string]any)["amount"])
	assert.Equal(t, "200", got["items"].([]any)[1].(map[string]any)["amount"])

	rec = performRequest(h, "POST", "/api/v1/invoices/"+id+"/items", map[string]any{"description": "Labor", "rate": 50})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got = decode(t, rec)
	assert.Len(t, got["items"], 3)
	assert.Equal(t, "3790", got["amount"])

	rec = performRequest(h, "POST", "/api/v1/invoices/"+id+"/items", map[string]any{"rate": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(h, "DELETE", "/api/v1/invoices/"+id+"/items/"+second, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3590", decode(t, rec)["amount"])

	rec = performRequest(h, "DELETE", "/api/v1/invoices/"+id+"/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoiceRemoveLastItem(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/invoices", map[string]any{
		"items": []map[string]any{{"description": "Only", "quantity": 1, "rate": 10}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	inv := decode(t, rec)
	itemID := inv["items"].([]any)[0].(map[string]any)["id"].(string)

	rec = performRequest(h, "DELETE", "/api/v1/invoices/"+inv["id"].(string)+"/items/"+itemID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInvoiceBlankItems(t *testing.T) {
	s, wb := setupServer(t)
	h := s.Handler()

	inv := createInvoice(t, h)
	id := inv["id"].(string)
	items := inv["items"].([]any)
	first := items[0].(map[string]any)["id"].(string)
	second := items[1].(map[string]any)["id"].(string)

	rec := performRequest(h, "POST", "/api/v1/invoices/"+id+"/items", map[string]any{"description": "   ", "rate": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, itemID := range []string{first, second} {
		rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id+"/items/"+itemID, map[string]any{"description": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}

	rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id+"/items/missing", map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id, map[string]any{"items": []map[string]any{}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id, map[string]any{
		"items": []map[string]any{{"description": " ", "quantity": 1, "rate": 1}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	stored, err := wb.Store.Invoice(id)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "2560", stored.Amount.String())
}

func TestInvoiceStatusAndSearch(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	inv := createInvoice(t, h)
	id := inv["id"].(string)

	rec := performRequest(h, "POST", "/api/v1/invoices/"+id+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sent", decode(t, rec)["status"])

	rec = performRequest(h, "GET", "/api/v1/invoices?status=Sent&q=john", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["invoices"], 1)
	assert.Equal(t, "2560", body["total"])

	rec = performRequest(h, "POST", "/api/v1/invoices/"+id+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Paid", decode(t, rec)["status"])

	rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id, map[string]any{"status": "Draft", "notes": "reopened"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Draft", got["status"])
	assert.Equal(t, "reopened", got["notes"])

	rec = performRequest(h, "PATCH", "/api/v1/invoices/"+id, map[string]any{"status": "Void"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(h, "GET", "/api/v1/invoices?status=Sent", nil)
	assert.Equal(t, []any{}, decode(t, rec)["invoices"])
}

func TestInvoiceNotFound(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/v1/invoices/nope"},
		{"DELETE", "/api/v1/invoices/nope"},
		{"POST", "/api/v1/invoices/nope/send"},
	} {
		rec := performRequest(h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestDeleteCustomerKeepsInvoices(t *testing.T) {
	s, wb := setupServer(t)
	h := s.Handler()

	inv := createInvoice(t, h)
	customerID := inv["customerId"].(string)

	rec := performRequest(h, "DELETE", "/api/v1/customers/"+customerID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, wb.Store.Invoices(), 1)

	rec = performRequest(h, "GET", "/api/v1/invoices/"+inv["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unknown Customer", decode(t, rec)["customerName"])
}

func TestTransactions(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/transactions", map[string]any{
		"description": "Office supplies", "debitAccount": "6000", "creditAccount": "1100", "amount": "142.50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "Pending", created["status"])
	id := created["id"].(string)

	rec = performRequest(h, "GET", "/api/v1/transactions?q=office&status=Pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["transactions"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "6000 - Operating Expenses", list[0].(map[string]any)["debitLabel"])

	rec = performRequest(h, "PATCH", "/api/v1/transactions/"+id, map[string]any{"status": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Approved", decode(t, rec)["status"])

	rec = performRequest(h, "GET", "/api/v1/transactions?status=Pending", nil)
	assert.Empty(t, decode(t, rec)["transactions"])

	rec = performRequest(h, "DELETE", "/api/v1/transactions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTransactionCheck(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/transactions", map[string]any{
		"description": "Typo", "debitAccount": "9999", "creditAccount": "9999", "amount": "10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = performRequest(h, "GET", "/api/v1/transactions/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rules []string
	for _, issue := range decode(t, rec)["issues"].([]any) {
		rules = append(rules, issue.(map[string]any)["rule"].(string))
	}
	assert.Contains(t, rules, "unknown-debit-account")
	assert.Contains(t, rules, "same-account")
}

func TestKPIs(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/kpis", map[string]any{"name": "Cash Flow", "value": 50, "target": 100, "unit": "%"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "poor", created["band"])
	assert.Equal(t, "50", created["performance"])
	assert.Equal(t, "stable", created["trend"])
	id := created["id"].(string)

	rec = performRequest(h, "PATCH", "/api/v1/kpis/"+id, map[string]any{"value": 120, "trend": "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "good", got["band"])
	assert.Equal(t, "100", got["performance"])

	rec = performRequest(h, "GET", "/api/v1/kpis", nil)
	summary := decode(t, rec)["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["onTarget"])
	assert.Equal(t, float64(1), summary["trendingUp"])

	rec = performRequest(h, "POST", "/api/v1/kpis", map[string]any{"name": "X", "trend": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsights(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "GET", "/api/v1/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["insights"], 3)
	assert.Len(t, body["categories"], 3)

	rec = performRequest(h, "GET", "/api/v1/insights?category=Collections", nil)
	assert.Len(t, decode(t, rec)["insights"], 1)

	rec = performRequest(h, "GET", "/api/v1/insights?category=None", nil)
	assert.Equal(t, []any{}, decode(t, rec)["insights"])
}

func TestActivity(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	rec := performRequest(h, "POST", "/api/v1/customers", map[string]any{"name": "Jane"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = performRequest(h, "GET", "/api/v1/activity?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode(t, rec)["activity"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "api", entry["actor"])
	assert.Equal(t, "create", entry["action"])
	assert.Equal(t, "customer", entry["entity"])

	rec = performRequest(h, "GET", "/api/v1/activity?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/customers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig([]string{"http://localhost:3000"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)
}
