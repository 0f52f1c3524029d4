package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/kpi"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// RecentLimit is how many transactions the dashboard shows.
const RecentLimit = 5

// Dashboard is the headline summary of a workbook.
type Dashboard struct {
	Totals               Totals              `json:"totals"`
	ActiveCustomers      int                 `json:"activeCustomers"`
	OutstandingInvoices  int                 `json:"outstandingInvoices"`
	OutstandingAmount    decimal.Decimal     `json:"outstandingAmount"`
	PendingTransactions  int                 `json:"pendingTransactions"`
	KPIs                 kpi.Summary         `json:"kpis"`
	HighPriorityInsights []model.Insight     `json:"highPriorityInsights"`
	RecentTransactions   []model.Transaction `json:"recentTransactions"`
}

// DashboardInput carries the collections the dashboard reads.
type DashboardInput struct {
	Accounts     []model.Account
	Customers    []model.Customer
	Transactions []model.Transaction
	Invoices     []model.Invoice
	KPIs         []model.KPI
	Insights     []model.Insight
}

// NewDashboard summarizes in. Outstanding invoices are the Sent ones.
func NewDashboard(in DashboardInput) Dashboard {
	d := Dashboard{
		Totals:            ComputeTotals(in.Accounts),
		OutstandingAmount: decimal.Zero,
		KPIs:              kpi.Summarize(in.KPIs),
	}
	for _, c := range in.Customers {
		if c.Status == model.CustomerActive {
			d.ActiveCustomers++
		}
	}
	for _, inv := range in.Invoices {
		if inv.Status == model.InvoiceSent {
			d.OutstandingInvoices++
			d.OutstandingAmount = d.OutstandingAmount.Add(inv.Amount)
		}
	}
	for _, t := range in.Transactions {
		if t.Status == model.TxnPending {
			d.PendingTransactions++
		}
	}
	for _, ins := range in.Insights {
		if ins.Priority == model.PriorityHigh {
			d.HighPriorityInsights = append(d.HighPriorityInsights, ins)
		}
	}
	d.RecentTransactions = recent(in.Transactions, RecentLimit)
	return d
}

// recent returns up to n transactions, newest date first. Ties keep
// insertion order reversed so later entries come first.
func recent(txns []model.Transaction, n int) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		out[len(txns)-1-i] = t
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
