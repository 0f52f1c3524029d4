package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// CashFlowAdjustments are the non-ledger figures the cash flow statement
// needs. Outflows are negative.
type CashFlowAdjustments struct {
	Depreciation       decimal.Decimal
	WorkingCapital     decimal.Decimal
	EquipmentPurchases decimal.Decimal
	OwnerInvestment    decimal.Decimal
}

// CashFlow is an indirect-method cash flow statement.
type CashFlow struct {
	NetIncome          decimal.Decimal `json:"netIncome"`
	Depreciation       decimal.Decimal `json:"depreciation"`
	WorkingCapital     decimal.Decimal `json:"workingCapital"`
	Operating          decimal.Decimal `json:"operating"`
	EquipmentPurchases decimal.Decimal `json:"equipmentPurchases"`
	Investing          decimal.Decimal `json:"investing"`
	OwnerInvestment    decimal.Decimal `json:"ownerInvestment"`
	Financing          decimal.Decimal `json:"financing"`
	NetIncrease        decimal.Decimal `json:"netIncrease"`
}

// NewCashFlow starts from net income and applies adj.
func NewCashFlow(accounts []model.Account, adj CashFlowAdjustments) CashFlow {
	cf := CashFlow{
		NetIncome:          NetIncome(accounts),
		Depreciation:       adj.Depreciation,
		WorkingCapital:     adj.WorkingCapital,
		EquipmentPurchases: adj.EquipmentPurchases,
		OwnerInvestment:    adj.OwnerInvestment,
	}
	cf.Operating = cf.NetIncome.Add(cf.Depreciation).Add(cf.WorkingCapital)
	cf.Investing = cf.EquipmentPurchases
	cf.Financing = cf.OwnerInvestment
	cf.NetIncrease = cf.Operating.Add(cf.Investing).Add(cf.Financing)
	return cf
}
