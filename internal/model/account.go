package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// DebitNormal reports whether accounts of this type carry a debit balance.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Common account categories used by the balance sheet.
const (
	CategoryCurrentAssets      = "Current Assets"
	CategoryFixedAssets        = "Fixed Assets"
	CategoryCurrentLiabilities = "Current Liabilities"
)

// Account is a ledger account in the chart of accounts.
type Account struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Type     AccountType     `json:"type"`
	Category string          `json:"category"`
	Balance  decimal.Decimal `json:"balance"`            // sign convention follows Type, not enforced
	ParentID string          `json:"parentId,omitempty"` // empty = top-level
	IsActive bool            `json:"isActive"`
	Created  time.Time       `json:"created"`
}

// AccountPatch holds the fields to change on an account. Nil fields are left alone.
type AccountPatch struct {
	Code     *string          `json:"code,omitempty"`
	Name     *string          `json:"name,omitempty"`
	Type     *AccountType     `json:"type,omitempty"`
	Category *string          `json:"category,omitempty"`
	Balance  *decimal.Decimal `json:"balance,omitempty"`
	ParentID *string          `json:"parentId,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// Apply returns a copy of a with the non-nil patch fields merged in.
func (p AccountPatch) Apply(a Account) Account {
	if p.Code != nil {
		a.Code = *p.Code
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.ParentID != nil {
		a.ParentID = *p.ParentID
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	return a
}
