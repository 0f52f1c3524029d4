package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Line is one account on a statement.
type Line struct {
	AccountID string          `json:"accountId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// Section is a titled group of lines with its total.
type Section struct {
	Title string          `json:"title"`
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func section(title string, accounts []model.Account, keep func(model.Account) bool) Section {
	s := Section{Title: title, Total: decimal.Zero}
	for _, a := range accounts {
		if !keep(a) {
			continue
		}
		s.Lines = append(s.Lines, Line{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: a.Balance})
		s.Total = s.Total.Add(a.Balance)
	}
	return s
}

func ofType(t model.AccountType) func(model.Account) bool {
	return func(a model.Account) bool { return a.Type == t }
}

// BalanceSheet lists assets against liabilities and equity.
type BalanceSheet struct {
	Assets                    []Section       `json:"assets"`
	Liabilities               Section         `json:"liabilities"`
	Equity                    Section         `json:"equity"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
}

// Balanced reports whether assets equal liabilities plus equity. Balances
// are entered directly, so nothing guarantees this.
func (b BalanceSheet) Balanced() bool {
	return b.TotalAssets.Equal(b.TotalLiabilitiesAndEquity)
}

// NewBalanceSheet groups asset accounts into current, fixed and other by
// category. The Other section is omitted when empty.
func NewBalanceSheet(accounts []model.Account) BalanceSheet {
	isAsset := ofType(model.AccountTypeAsset)
	current := section(model.CategoryCurrentAssets, accounts, func(a model.Account) bool {
		return isAsset(a) && a.Category == model.CategoryCurrentAssets
	})
	fixed := section(model.CategoryFixedAssets, accounts, func(a model.Account) bool {
		return isAsset(a) && a.Category == model.CategoryFixedAssets
	})
	other := section("Other Assets", accounts, func(a model.Account) bool {
		return isAsset(a) && a.Category != model.CategoryCurrentAssets && a.Category != model.CategoryFixedAssets
	})

	bs := BalanceSheet{
		Assets:      []Section{current, fixed},
		Liabilities: section("Liabilities", accounts, ofType(model.AccountTypeLiability)),
		Equity:      section("Equity", accounts, ofType(model.AccountTypeEquity)),
	}
	if len(other.Lines) > 0 {
		bs.Assets = append(bs.Assets, other)
	}
	bs.TotalAssets = current.Total.Add(fixed.Total).Add(other.Total)
	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total.Add(bs.Equity.Total)
	return bs
}

// IncomeStatement lists revenue against expenses.
type IncomeStatement struct {
	Revenue   Section         `json:"revenue"`
	Expenses  Section         `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// NewIncomeStatement builds the income statement for accounts.
func NewIncomeStatement(accounts []model.Account) IncomeStatement {
	is := IncomeStatement{
		Revenue:  section("Revenue", accounts, ofType(model.AccountTypeRevenue)),
		Expenses: section("Expenses", accounts, ofType(model.AccountTypeExpense)),
	}
	is.NetIncome = is.Revenue.Total.Sub(is.Expenses.Total)
	return is
}

// TrialRow is one account on the trial balance. Exactly one of Debit and
// Credit is set, according to the account type.
type TrialRow struct {
	AccountID string            `json:"accountId"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Type      model.AccountType `json:"type"`
	Debit     decimal.Decimal   `json:"debit"`
	Credit    decimal.Decimal   `json:"credit"`
}

// TrialBalance lists every account with its balance in the debit or credit
// column.
type TrialBalance struct {
	Rows        []TrialRow      `json:"rows"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// Balanced reports whether the debit and credit columns agree.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// NewTrialBalance places asset and expense balances in the debit column
// and the rest in the credit column.
func NewTrialBalance(accounts []model.Account) TrialBalance {
	tb := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range accounts {
		row := TrialRow{AccountID: a.ID, Code: a.Code, Name: a.Name, Type: a.Type, Debit: decimal.Zero, Credit: decimal.Zero}
		if a.Type.DebitNormal() {
			row.Debit = a.Balance
			tb.TotalDebit = tb.TotalDebit.Add(a.Balance)
		} else {
			row.Credit = a.Balance
			tb.TotalCredit = tb.TotalCredit.Add(a.Balance)
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb
}
