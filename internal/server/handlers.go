package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/insights"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/kpi"
	"github.com/cleared-dev/ledgerdash/internal/ledger"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/report"
	"github.com/cleared-dev/ledgerdash/internal/store"
)

const defaultActivityLimit = 20

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, invoice.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, invoice.ErrBlankDescription):
		badRequest(c, err)
		return
	case errors.Is(err, invoice.ErrLastItem):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// record persists the workbook and logs the change. On failure the error
// response is written and false returned.
func (s *Server) record(c *gin.Context, action, entity, entityID, details string) bool {
	err := s.wb.Commit(activity.Entry{
		Actor:    Actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
	if err != nil {
		s.fail(c, err)
		return false
	}
	return true
}

func (s *Server) dashboard(c *gin.Context) {
	snap := s.wb.Store.Snapshot()
	recent, err := s.wb.Activity(report.RecentLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardView{
		Dashboard: report.NewDashboard(report.DashboardInput{
			Accounts:     snap.Accounts,
			Customers:    snap.Customers,
			Transactions: snap.Transactions,
			Invoices:     snap.Invoices,
			KPIs:         snap.KPIs,
			Insights:     snap.Insights,
		}),
		Business:       s.wb.Config.Business.Name,
		Currency:       s.wb.Config.Business.Currency,
		RecentActivity: nonNil(recent),
	})
}

func (s *Server) activity(c *gin.Context) {
	limit := defaultActivityLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			badRequest(c, fmt.Errorf("invalid limit %q", q))
			return
		}
		limit = n
	}
	entries, err := s.wb.Activity(limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": nonNil(entries)})
}

func (s *Server) balanceSheet(c *gin.Context) {
	bs := report.NewBalanceSheet(s.wb.Store.Accounts())
	c.JSON(http.StatusOK, balanceSheetView{BalanceSheet: bs, Balanced: bs.Balanced()})
}

func (s *Server) incomeStatement(c *gin.Context) {
	c.JSON(http.StatusOK, report.NewIncomeStatement(s.wb.Store.Accounts()))
}

func (s *Server) trialBalance(c *gin.Context) {
	tb := report.NewTrialBalance(s.wb.Store.Accounts())
	c.JSON(http.StatusOK, trialBalanceView{TrialBalance: tb, Balanced: tb.Balanced()})
}

func (s *Server) cashFlow(c *gin.Context) {
	c.JSON(http.StatusOK, report.NewCashFlow(s.wb.Store.Accounts(), s.wb.Config.CashFlowAdjustments()))
}

// Accounts

func (s *Server) listAccounts(c *gin.Context) {
	list := s.wb.Store.Accounts()
	if t := c.Query("type"); t != "" {
		list = accounts.NewIndex(list).ByType(model.AccountType(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts": nonNil(list),
		"totals":   report.ComputeTotals(s.wb.Store.Accounts()),
	})
}

func (s *Server) getAccount(c *gin.Context) {
	a, err := s.wb.Store.Account(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) createAccount(c *gin.Context) {
	// New accounts are active unless the request says otherwise.
	var req struct {
		model.Account
		IsActive *bool `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Type.Valid() {
		badRequest(c, fmt.Errorf("unknown account type %q", req.Type))
		return
	}
	req.Account.IsActive = req.IsActive == nil || *req.IsActive
	a, _ := s.wb.Store.AddAccount(req.Account)
	if !s.record(c, activity.ActionCreate, "account", a.ID, a.Name) {
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAccount(c *gin.Context) {
	var p model.AccountPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, err := s.wb.Store.UpdateAccount(id, p); err != nil {
		s.fail(c, err)
		return
	}
	a, err := s.wb.Store.Account(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionUpdate, "account", id, a.Name) {
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAccount(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.wb.Store.DeleteAccount(id); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionDelete, "account", id, "") {
		return
	}
	c.Status(http.StatusNoContent)
}

// Customers

func (s *Server) listCustomers(c *gin.Context) {
	all := s.wb.Store.Customers()
	c.JSON(http.StatusOK, gin.H{
		"customers": nonNil(crm.Search(all, c.Query("q"))),
		"counts":    crm.CountByStatus(all),
	})
}

func (s *Server) getCustomer(c *gin.Context) {
	cust, err := s.wb.Store.Customer(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *Server) createCustomer(c *gin.Context) {
	var req model.Customer
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Status == "" {
		req.Status = model.CustomerActive
	}
	if !req.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown customer status %q", req.Status))
		return
	}
	cust, _ := s.wb.Store.AddCustomer(req)
	if !s.record(c, activity.ActionCreate, "customer", cust.ID, cust.Name) {
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (s *Server) updateCustomer(c *gin.Context) {
	var p model.CustomerPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, err := s.wb.Store.UpdateCustomer(id, p); err != nil {
		s.fail(c, err)
		return
	}
	cust, err := s.wb.Store.Customer(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionUpdate, "customer", id, cust.Name) {
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.wb.Store.DeleteCustomer(id); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionDelete, "customer", id, "") {
		return
	}
	c.Status(http.StatusNoContent)
}

// Transactions

func (s *Server) listTransactions(c *gin.Context) {
	status := c.DefaultQuery("status", ledger.StatusAll)
	all := s.wb.Store.Transactions()
	list := ledger.Search(all, c.Query("q"), status)
	idx := accounts.NewIndex(s.wb.Store.Accounts())
	c.JSON(http.StatusOK, gin.H{
		"transactions": newTransactionViews(list, idx, s.wb.Store.Customers()),
		"counts":       ledger.CountByStatus(all),
	})
}

func (s *Server) getTransaction(c *gin.Context) {
	t, err := s.wb.Store.Transaction(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	idx := accounts.NewIndex(s.wb.Store.Accounts())
	c.JSON(http.StatusOK, newTransactionViews([]model.Transaction{t}, idx, s.wb.Store.Customers())[0])
}

func (s *Server) createTransaction(c *gin.Context) {
	var req model.Transaction
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Status == "" {
		req.Status = model.TxnPending
	}
	if !req.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown transaction status %q", req.Status))
		return
	}
	if req.Date.IsZero() {
		req.Date = s.wb.Today()
	}
	t, _ := s.wb.Store.AddTransaction(req)
	if !s.record(c, activity.ActionCreate, "transaction", t.ID, t.Description) {
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTransaction(c *gin.Context) {
	var p model.TransactionPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, err := s.wb.Store.UpdateTransaction(id, p); err != nil {
		s.fail(c, err)
		return
	}
	t, err := s.wb.Store.Transaction(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionUpdate, "transaction", id, t.Description) {
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.wb.Store.DeleteTransaction(id); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionDelete, "transaction", id, "") {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) checkTransactions(c *gin.Context) {
	customers := s.wb.Store.Customers()
	issues := ledger.Check(
		s.wb.Store.Transactions(),
		accounts.NewIndex(s.wb.Store.Accounts()),
		func(id string) bool {
			_, ok := crm.Find(customers, id)
			return ok
		},
	)
	c.JSON(http.StatusOK, gin.H{"issues": nonNil(issues)})
}

// KPIs

func (s *Server) listKPIs(c *gin.Context) {
	all := s.wb.Store.KPIs()
	views := make([]kpiView, 0, len(all))
	for _, k := range all {
		views = append(views, newKPIView(k))
	}
	c.JSON(http.StatusOK, gin.H{
		"kpis":    views,
		"summary": kpi.Summarize(all),
	})
}

func (s *Server) getKPI(c *gin.Context) {
	k, err := s.wb.Store.KPI(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newKPIView(k))
}

func (s *Server) createKPI(c *gin.Context) {
	var req model.KPI
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Trend == "" {
		req.Trend = model.TrendStable
	}
	if !req.Trend.Valid() {
		badRequest(c, fmt.Errorf("unknown trend %q", req.Trend))
		return
	}
	k, _ := s.wb.Store.AddKPI(req)
	if !s.record(c, activity.ActionCreate, "kpi", k.ID, k.Name) {
		return
	}
	c.JSON(http.StatusCreated, newKPIView(k))
}

func (s *Server) updateKPI(c *gin.Context) {
	var p model.KPIPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, err := s.wb.Store.UpdateKPI(id, p); err != nil {
		s.fail(c, err)
		return
	}
	k, err := s.wb.Store.KPI(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionUpdate, "kpi", id, k.Name) {
		return
	}
	c.JSON(http.StatusOK, newKPIView(k))
}

func (s *Server) deleteKPI(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.wb.Store.DeleteKPI(id); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionDelete, "kpi", id, "") {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listInsights(c *gin.Context) {
	all := s.wb.Store.Insights()
	c.JSON(http.StatusOK, gin.H{
		"insights":   nonNil(insights.Filter(all, c.Query("category"))),
		"categories": insights.Categories(all),
		"byPriority": insights.CountByPriority(all),
	})
}
