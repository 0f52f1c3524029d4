// Package ledger stores transactions and reports problems with them.
package ledger

import (
	"strings"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// StatusAll disables status filtering in Search.
const StatusAll = "All"

// Search returns transactions whose description or reference contains
// term (ignoring case) and whose status equals status. An empty term or a
// status of "" or StatusAll matches everything.
func Search(txns []model.Transaction, term, status string) []model.Transaction {
	term = strings.ToLower(term)
	var out []model.Transaction
	for _, txn := range txns {
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(txn.Description), term) ||
			strings.Contains(strings.ToLower(txn.Reference), term)
		matchesStatus := status == "" || status == StatusAll || string(txn.Status) == status
		if matchesSearch && matchesStatus {
			out = append(out, txn)
		}
	}
	return out
}

// CountByStatus tallies transactions per status.
func CountByStatus(txns []model.Transaction) map[model.TransactionStatus]int {
	counts := make(map[model.TransactionStatus]int)
	for _, txn := range txns {
		counts[txn.Status]++
	}
	return counts
}
