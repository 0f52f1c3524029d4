package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the approval state of a transaction. There is no
// transition table; any status may be set at any time.
type TransactionStatus string

const (
	TxnPending  TransactionStatus = "Pending"
	TxnApproved TransactionStatus = "Approved"
	TxnRejected TransactionStatus = "Rejected"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TxnPending, TxnApproved, TxnRejected:
		return true
	}
	return false
}

// Transaction moves Amount from CreditAccount to DebitAccount.
// Account references hold an account ID or code.
type Transaction struct {
	ID            string            `json:"id"`
	Date          time.Time         `json:"date"`
	Reference     string            `json:"reference"`
	Description   string            `json:"description"`
	DebitAccount  string            `json:"debitAccount"`
	CreditAccount string            `json:"creditAccount"`
	Amount        decimal.Decimal   `json:"amount"`
	CustomerID    string            `json:"customerId,omitempty"` // optional
	Status        TransactionStatus `json:"status"`
	Created       time.Time         `json:"created"`
}

// TransactionPatch holds the fields to change on a transaction.
type TransactionPatch struct {
	Date          *time.Time         `json:"date,omitempty"`
	Reference     *string            `json:"reference,omitempty"`
	Description   *string            `json:"description,omitempty"`
	DebitAccount  *string            `json:"debitAccount,omitempty"`
	CreditAccount *string            `json:"creditAccount,omitempty"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	CustomerID    *string            `json:"customerId,omitempty"`
	Status        *TransactionStatus `json:"status,omitempty"`
}

// Apply returns a copy of t with the non-nil patch fields merged in.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Reference != nil {
		t.Reference = *p.Reference
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DebitAccount != nil {
		t.DebitAccount = *p.DebitAccount
	}
	if p.CreditAccount != nil {
		t.CreditAccount = *p.CreditAccount
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.CustomerID != nil {
		t.CustomerID = *p.CustomerID
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}
