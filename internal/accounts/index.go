package accounts

import (
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Index provides lookup over a chart of accounts snapshot. Transactions
// refer to accounts by ID or by code, so both are indexed.
type Index struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewIndex creates an Index from a slice of accounts.
func NewIndex(accounts []model.Account) *Index {
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		if a.Code != "" {
			byCode[a.Code] = a
		}
	}
	return &Index{accounts: accounts, byID: byID, byCode: byCode}
}

// All returns all accounts.
func (x *Index) All() []model.Account {
	return x.accounts
}

// Get returns an account by ID.
func (x *Index) Get(id string) (model.Account, bool) {
	a, ok := x.byID[id]
	return a, ok
}

// Resolve returns the account a reference points at, trying the ID first
// and the code second.
func (x *Index) Resolve(ref string) (model.Account, bool) {
	if a, ok := x.byID[ref]; ok {
		return a, true
	}
	a, ok := x.byCode[ref]
	return a, ok
}

// Exists reports whether a reference resolves to an account.
func (x *Index) Exists(ref string) bool {
	_, ok := x.Resolve(ref)
	return ok
}

// Label renders a reference as "code - name", or the raw reference when
// it does not resolve.
func (x *Index) Label(ref string) string {
	a, ok := x.Resolve(ref)
	if !ok {
		return ref
	}
	return a.Code + " - " + a.Name
}

// ByType returns all accounts of the given type.
func (x *Index) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range x.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}
