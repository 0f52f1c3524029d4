package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Rule identifies the kind of problem an Issue reports.
type Rule string

const (
	RuleUnknownDebit    Rule = "unknown-debit-account"
	RuleUnknownCredit   Rule = "unknown-credit-account"
	RuleSameAccount     Rule = "same-account"
	RuleNonPositive     Rule = "non-positive-amount"
	RulePrecision       Rule = "precision"
	RuleUnknownCustomer Rule = "unknown-customer"
	RuleUnknownStatus   Rule = "unknown-status"
)

// Issue describes a single data problem on a transaction. Issues are
// advisory: transactions are stored regardless.
type Issue struct {
	Rule          Rule   `json:"rule"`
	TransactionID string `json:"transactionId"`
	Description   string `json:"description"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s [%s]: %s", i.Rule, i.TransactionID, i.Description)
}

// AccountChecker tests whether an account reference resolves.
type AccountChecker interface {
	Exists(ref string) bool
}

// CustomerChecker tests whether a customer id exists.
type CustomerChecker func(id string) bool

var hundred = decimal.NewFromInt(100)

// Check reports data issues across a set of transactions.
func Check(txns []model.Transaction, accounts AccountChecker, customerExists CustomerChecker) []Issue {
	var issues []Issue
	add := func(rule Rule, txn model.Transaction, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, TransactionID: txn.ID, Description: fmt.Sprintf(format, args...)})
	}

	for _, txn := range txns {
		if !accounts.Exists(txn.DebitAccount) {
			add(RuleUnknownDebit, txn, "unknown debit account %q", txn.DebitAccount)
		}
		if !accounts.Exists(txn.CreditAccount) {
			add(RuleUnknownCredit, txn, "unknown credit account %q", txn.CreditAccount)
		}
		if txn.DebitAccount != "" && txn.DebitAccount == txn.CreditAccount {
			add(RuleSameAccount, txn, "debit and credit both %q", txn.DebitAccount)
		}

		if !txn.Amount.IsPositive() {
			add(RuleNonPositive, txn, "amount %s is not positive", txn.Amount)
		}
		// No more than 2 decimal places.
		if scaled := txn.Amount.Mul(hundred); !scaled.Equal(scaled.Truncate(0)) {
			add(RulePrecision, txn, "amount %s has more than 2 decimal places", txn.Amount)
		}

		if txn.CustomerID != "" && customerExists != nil && !customerExists(txn.CustomerID) {
			add(RuleUnknownCustomer, txn, "unknown customer %q", txn.CustomerID)
		}
		if !txn.Status.Valid() {
			add(RuleUnknownStatus, txn, "unknown status %q", txn.Status)
		}
	}
	return issues
}
