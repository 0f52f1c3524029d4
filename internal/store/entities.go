package store

import (
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

func accountKey(a model.Account) string         { return a.ID }
func customerKey(c model.Customer) string       { return c.ID }
func transactionKey(t model.Transaction) string { return t.ID }
func invoiceKey(inv model.Invoice) string       { return inv.ID }
func kpiKey(k model.KPI) string                 { return k.ID }

// Accounts returns a copy of the chart of accounts.
func (s *Store) Accounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Account(nil), s.accounts...)
}

// Account returns the account with the given id.
func (s *Store) Account(id string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := find(s.accounts, id, accountKey)
	if !ok {
		return model.Account{}, notFound("account", id)
	}
	return a, nil
}

// AddAccount assigns a an id and creation time and appends it.
func (s *Store) AddAccount(a model.Account) (model.Account, []model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.ids.Next()
	a.Created = s.ids.Now()
	s.accounts = append(s.accounts, a)
	return a, append([]model.Account(nil), s.accounts...)
}

// UpdateAccount merges p into the account with the given id.
func (s *Store) UpdateAccount(id string, p model.AccountPatch) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := update(s.accounts, id, accountKey, p.Apply); !ok {
		return nil, notFound("account", id)
	}
	return append([]model.Account(nil), s.accounts...), nil
}

// DeleteAccount removes the account with the given id. Transactions that
// reference it are left alone.
func (s *Store) DeleteAccount(id string) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := remove(s.accounts, id, accountKey)
	if !ok {
		return nil, notFound("account", id)
	}
	s.accounts = out
	return append([]model.Account(nil), s.accounts...), nil
}

// Customers returns a copy of the customer list.
func (s *Store) Customers() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Customer(nil), s.customers...)
}

// Customer returns the customer with the given id.
func (s *Store) Customer(id string) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := find(s.customers, id, customerKey)
	if !ok {
		return model.Customer{}, notFound("customer", id)
	}
	return c, nil
}

// AddCustomer assigns c an id and creation time and appends it.
func (s *Store) AddCustomer(c model.Customer) (model.Customer, []model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.ids.Next()
	c.Created = s.ids.Now()
	s.customers = append(s.customers, c)
	return c, append([]model.Customer(nil), s.customers...)
}

// UpdateCustomer merges p into the customer with the given id.
func (s *Store) UpdateCustomer(id string, p model.CustomerPatch) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := update(s.customers, id, customerKey, p.Apply); !ok {
		return nil, notFound("customer", id)
	}
	return append([]model.Customer(nil), s.customers...), nil
}

// DeleteCustomer removes the customer with the given id. Its invoices and
// transactions stay.
func (s *Store) DeleteCustomer(id string) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := remove(s.customers, id, customerKey)
	if !ok {
		return nil, notFound("customer", id)
	}
	s.customers = out
	return append([]model.Customer(nil), s.customers...), nil
}

// Transactions returns a copy of the transaction list.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Transaction(nil), s.transactions...)
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(id string) (model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := find(s.transactions, id, transactionKey)
	if !ok {
		return model.Transaction{}, notFound("transaction", id)
	}
	return t, nil
}

// AddTransaction assigns t an id and creation time and appends it.
func (s *Store) AddTransaction(t model.Transaction) (model.Transaction, []model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.ids.Next()
	t.Created = s.ids.Now()
	s.transactions = append(s.transactions, t)
	return t, append([]model.Transaction(nil), s.transactions...)
}

// UpdateTransaction merges p into the transaction with the given id.
func (s *Store) UpdateTransaction(id string, p model.TransactionPatch) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := update(s.transactions, id, transactionKey, p.Apply); !ok {
		return nil, notFound("transaction", id)
	}
	return append([]model.Transaction(nil), s.transactions...), nil
}

// DeleteTransaction removes the transaction with the given id.
func (s *Store) DeleteTransaction(id string) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := remove(s.transactions, id, transactionKey)
	if !ok {
		return nil, notFound("transaction", id)
	}
	s.transactions = out
	return append([]model.Transaction(nil), s.transactions...), nil
}

// Invoices returns a deep copy of the invoice list.
func (s *Store) Invoices() []model.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneInvoices(s.invoices)
}

// Invoice returns the invoice with the given id.
func (s *Store) Invoice(id string) (model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := find(s.invoices, id, invoiceKey)
	if !ok {
		return model.Invoice{}, notFound("invoice", id)
	}
	return inv.Clone(), nil
}

// AddInvoice assigns inv an id and creation time and appends it. Items
// without an id get one; blank items are dropped and Amount is set to the
// item subtotal.
func (s *Store) AddInvoice(inv model.Invoice) (model.Invoice, []model.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv = inv.Clone()
	inv.ID = s.ids.Next()
	inv.Created = s.ids.Now()
	s.assignItemIDs(inv.Items)
	inv = invoice.Prepare(inv)
	s.invoices = append(s.invoices, inv)
	return inv.Clone(), cloneInvoices(s.invoices)
}

// UpdateInvoice merges p into the invoice with the given id. When p
// replaces the items they are prepared as in AddInvoice; otherwise the
// stored Amount is left as patched.
func (s *Store) UpdateInvoice(id string, p model.InvoicePatch) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := update(s.invoices, id, invoiceKey, func(inv model.Invoice) model.Invoice {
		inv = p.Apply(inv)
		if p.Items != nil {
			s.assignItemIDs(inv.Items)
			inv = invoice.Prepare(inv)
		}
		return inv
	})
	if !ok {
		return nil, notFound("invoice", id)
	}
	return cloneInvoices(s.invoices), nil
}

// UpdateInvoiceItems replaces the items of the invoice with the result of
// fn, all under the store lock. fn receives a copy of the current items; an
// error from fn leaves the invoice unchanged. The new items are prepared as
// in AddInvoice.
func (s *Store) UpdateInvoiceItems(id string, fn func([]model.InvoiceItem) ([]model.InvoiceItem, error)) (model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID != id {
			continue
		}
		inv := s.invoices[i].Clone()
		items, err := fn(inv.Items)
		if err != nil {
			return model.Invoice{}, err
		}
		inv.Items = items
		s.assignItemIDs(inv.Items)
		s.invoices[i] = invoice.Prepare(inv)
		return s.invoices[i].Clone(), nil
	}
	return model.Invoice{}, notFound("invoice", id)
}

// DeleteInvoice removes the invoice with the given id.
func (s *Store) DeleteInvoice(id string) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := remove(s.invoices, id, invoiceKey)
	if !ok {
		return nil, notFound("invoice", id)
	}
	s.invoices = out
	return cloneInvoices(s.invoices), nil
}

// SetInvoiceStatus is shorthand for an UpdateInvoice that only changes the
// status. Any status may follow any other.
func (s *Store) SetInvoiceStatus(id string, status model.InvoiceStatus) ([]model.Invoice, error) {
	return s.UpdateInvoice(id, model.InvoicePatch{Status: &status})
}

func (s *Store) assignItemIDs(items []model.InvoiceItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.ids.Next()
		}
	}
}

// KPIs returns a copy of the KPI list.
func (s *Store) KPIs() []model.KPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.KPI(nil), s.kpis...)
}

// KPI returns the KPI with the given id.
func (s *Store) KPI(id string) (model.KPI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := find(s.kpis, id, kpiKey)
	if !ok {
		return model.KPI{}, notFound("kpi", id)
	}
	return k, nil
}

// AddKPI assigns k an id and appends it.
func (s *Store) AddKPI(k model.KPI) (model.KPI, []model.KPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k.ID = s.ids.Next()
	s.kpis = append(s.kpis, k)
	return k, append([]model.KPI(nil), s.kpis...)
}

// UpdateKPI merges p into the KPI with the given id.
func (s *Store) UpdateKPI(id string, p model.KPIPatch) ([]model.KPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := update(s.kpis, id, kpiKey, p.Apply); !ok {
		return nil, notFound("kpi", id)
	}
	return append([]model.KPI(nil), s.kpis...), nil
}

// DeleteKPI removes the KPI with the given id.
func (s *Store) DeleteKPI(id string) ([]model.KPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := remove(s.kpis, id, kpiKey)
	if !ok {
		return nil, notFound("kpi", id)
	}
	s.kpis = out
	return append([]model.KPI(nil), s.kpis...), nil
}

// Insights returns a copy of the insight list.
func (s *Store) Insights() []model.Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Insight(nil), s.insights...)
}
