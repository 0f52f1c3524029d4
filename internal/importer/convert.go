package importer

import (
	"time"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/id"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// DefaultReferencePrefix prefixes references of imported transactions.
const DefaultReferencePrefix = "BANK"

// Options say which accounts the two sides of an imported row post to.
// Both hold an account ID or code.
type Options struct {
	BankAccount     string
	ClearingAccount string
	ReferencePrefix string
}

// Result is the outcome of ToTransactions.
type Result struct {
	Transactions []model.Transaction
	Duplicates   []model.BankTransaction
}

// ToTransactions converts bank rows into Pending transactions. Money out
// debits the clearing account and credits the bank; money in does the
// reverse. Amounts are stored positive.
//
// Rows matching an existing transaction on date, description, amount and
// accounts are reported as duplicates instead of converted. References
// continue the per-day sequence already present in existing.
func ToTransactions(rows []model.BankTransaction, existing []model.Transaction, opts Options) Result {
	prefix := opts.ReferencePrefix
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}

	seen := make(map[string]bool, len(existing))
	lastSeq := make(map[string]int)
	for _, t := range existing {
		seen[dupKey(t)] = true
		p, day, seq, err := id.ParseReference(t.Reference)
		if err != nil || p != prefix {
			continue
		}
		d := day.Format(csvfile.DateFormat)
		if seq > lastSeq[d] {
			lastSeq[d] = seq
		}
	}

	var res Result
	for _, row := range rows {
		t := model.Transaction{
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount.Abs(),
			Status:      model.TxnPending,
		}
		if row.Amount.IsNegative() {
			t.DebitAccount, t.CreditAccount = opts.ClearingAccount, opts.BankAccount
		} else {
			t.DebitAccount, t.CreditAccount = opts.BankAccount, opts.ClearingAccount
		}

		key := dupKey(t)
		if seen[key] {
			res.Duplicates = append(res.Duplicates, row)
			continue
		}
		seen[key] = true

		d := row.Date.Format(csvfile.DateFormat)
		lastSeq[d]++
		t.Reference = id.FormatReference(prefix, day(row.Date), lastSeq[d])
		res.Transactions = append(res.Transactions, t)
	}
	return res
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dupKey(t model.Transaction) string {
	return t.Date.Format(csvfile.DateFormat) + "|" + t.Description + "|" + t.Amount.String() + "|" + t.DebitAccount + "|" + t.CreditAccount
}
