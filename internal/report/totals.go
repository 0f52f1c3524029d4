// Package report derives financial figures from the chart of accounts.
// Every function is pure: it reads the collections it is given and
// returns new values.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// TotalByType sums Balance over accounts of type t. No matches is zero.
func TotalByType(accounts []model.Account, t model.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == t {
			total = total.Add(a.Balance)
		}
	}
	return total
}

func TotalAssets(accounts []model.Account) decimal.Decimal {
	return TotalByType(accounts, model.AccountTypeAsset)
}

func TotalLiabilities(accounts []model.Account) decimal.Decimal {
	return TotalByType(accounts, model.AccountTypeLiability)
}

func TotalEquity(accounts []model.Account) decimal.Decimal {
	return TotalByType(accounts, model.AccountTypeEquity)
}

func TotalRevenue(accounts []model.Account) decimal.Decimal {
	return TotalByType(accounts, model.AccountTypeRevenue)
}

func TotalExpenses(accounts []model.Account) decimal.Decimal {
	return TotalByType(accounts, model.AccountTypeExpense)
}

// NetIncome is total revenue minus total expenses.
func NetIncome(accounts []model.Account) decimal.Decimal {
	return TotalRevenue(accounts).Sub(TotalExpenses(accounts))
}

// Totals holds every per-type total plus net income.
type Totals struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetIncome   decimal.Decimal `json:"netIncome"`
}

// ComputeTotals returns every total in one pass over accounts.
func ComputeTotals(accounts []model.Account) Totals {
	by := make(map[model.AccountType]decimal.Decimal, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		by[t] = decimal.Zero
	}
	for _, a := range accounts {
		if cur, ok := by[a.Type]; ok {
			by[a.Type] = cur.Add(a.Balance)
		}
	}
	return Totals{
		Assets:      by[model.AccountTypeAsset],
		Liabilities: by[model.AccountTypeLiability],
		Equity:      by[model.AccountTypeEquity],
		Revenue:     by[model.AccountTypeRevenue],
		Expenses:    by[model.AccountTypeExpense],
		NetIncome:   by[model.AccountTypeRevenue].Sub(by[model.AccountTypeExpense]),
	}
}
