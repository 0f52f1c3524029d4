package accounts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// DefaultChart returns the starter chart of accounts. Every entity type
// currently gets the same small-business chart; account ids equal codes
// and every account opens with a zero balance.
func DefaultChart(entityType string, created time.Time) []model.Account {
	chart := smallBusinessChart()
	for i := range chart {
		chart[i].ID = chart[i].Code
		chart[i].Balance = decimal.Zero
		chart[i].IsActive = true
		chart[i].Created = created
	}
	return chart
}

func smallBusinessChart() []model.Account {
	return []model.Account{
		{Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Category: model.CategoryCurrentAssets},
		{Code: "1100", Name: "Business Checking", Type: model.AccountTypeAsset, Category: model.CategoryCurrentAssets},
		{Code: "1200", Name: "Accounts Receivable", Type: model.AccountTypeAsset, Category: model.CategoryCurrentAssets},
		{Code: "1500", Name: "Equipment", Type: model.AccountTypeAsset, Category: model.CategoryFixedAssets},
		{Code: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability, Category: model.CategoryCurrentLiabilities},
		{Code: "2100", Name: "VAT Payable", Type: model.AccountTypeLiability, Category: model.CategoryCurrentLiabilities},
		{Code: "3000", Name: "Owner's Equity", Type: model.AccountTypeEquity, Category: "Equity"},
		{Code: "4000", Name: "Sales Revenue", Type: model.AccountTypeRevenue, Category: "Revenue"},
		{Code: "4100", Name: "Service Revenue", Type: model.AccountTypeRevenue, Category: "Revenue"},
		{Code: "5000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense, Category: "Cost of Sales"},
		{Code: "6000", Name: "Operating Expenses", Type: model.AccountTypeExpense, Category: "Operating Expenses"},
		{Code: "6900", Name: "Uncategorized Expenses", Type: model.AccountTypeExpense, Category: "Operating Expenses"},
	}
}
