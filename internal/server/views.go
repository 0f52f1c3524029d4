package server

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/kpi"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/report"
)

type dashboardView struct {
	report.Dashboard
	Business       string           `json:"business"`
	Currency       string           `json:"currency"`
	RecentActivity []activity.Entry `json:"recentActivity"`
}

type balanceSheetView struct {
	report.BalanceSheet
	Balanced bool `json:"balanced"`
}

type trialBalanceView struct {
	report.TrialBalance
	Balanced bool `json:"balanced"`
}

// transactionView adds readable account labels and the customer name.
type transactionView struct {
	model.Transaction
	DebitLabel   string `json:"debitLabel"`
	CreditLabel  string `json:"creditLabel"`
	CustomerName string `json:"customerName,omitempty"`
}

func newTransactionViews(txns []model.Transaction, idx *accounts.Index, customers []model.Customer) []transactionView {
	out := make([]transactionView, 0, len(txns))
	for _, t := range txns {
		v := transactionView{
			Transaction: t,
			DebitLabel:  idx.Label(t.DebitAccount),
			CreditLabel: idx.Label(t.CreditAccount),
		}
		if t.CustomerID != "" {
			v.CustomerName = crm.Name(customers, t.CustomerID)
		}
		out = append(out, v)
	}
	return out
}

type invoiceView struct {
	model.Invoice
	CustomerName string         `json:"customerName"`
	Totals       invoice.Totals `json:"totals"`
	PastDue      bool           `json:"pastDue"`
}

func (s *Server) newInvoiceView(inv model.Invoice, customers []model.Customer) invoiceView {
	return invoiceView{
		Invoice:      inv,
		CustomerName: invoice.CustomerName(customers, inv.CustomerID),
		Totals:       invoice.ComputeTotals(inv, s.wb.Config.InvoiceDefaults()),
		PastDue:      invoice.PastDue(inv, s.wb.Today()),
	}
}

type kpiView struct {
	model.KPI
	Performance decimal.Decimal `json:"performance"`
	Band        kpi.Band        `json:"band"`
	Variance    decimal.Decimal `json:"variance"`
}

func newKPIView(k model.KPI) kpiView {
	return kpiView{
		KPI:         k,
		Performance: kpi.Performance(k.Value, k.Target),
		Band:        kpi.BandFor(k.Value, k.Target),
		Variance:    kpi.Variance(k),
	}
}
