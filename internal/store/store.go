// Package store owns the in-memory workbook: every entity collection plus
// the insight list. A Store is created once and passed to whatever needs
// it; all methods are safe for concurrent use.
//
// Mutations return the updated collection. No field validation happens
// here and nothing cascades: deleting a customer leaves its invoices and
// transactions in place.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/crm"
	"github.com/cleared-dev/ledgerdash/internal/id"
	"github.com/cleared-dev/ledgerdash/internal/insights"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/kpi"
	"github.com/cleared-dev/ledgerdash/internal/ledger"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("not found")

// Store holds the workbook collections.
type Store struct {
	mu  sync.RWMutex
	ids *id.Generator

	accounts     []model.Account
	customers    []model.Customer
	transactions []model.Transaction
	invoices     []model.Invoice
	kpis         []model.KPI
	insights     []model.Insight
}

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Accounts     []model.Account     `json:"accounts"`
	Customers    []model.Customer    `json:"customers"`
	Transactions []model.Transaction `json:"transactions"`
	Invoices     []model.Invoice     `json:"invoices"`
	KPIs         []model.KPI         `json:"kpis"`
	Insights     []model.Insight     `json:"insights"`
}

// New returns an empty Store. A nil generator uses the wall clock.
func New(ids *id.Generator) *Store {
	if ids == nil {
		ids = id.NewGenerator()
	}
	return &Store{ids: ids}
}

// NewFromSnapshot returns a Store seeded with copies of snap. The
// generator is advanced past every seeded id.
func NewFromSnapshot(ids *id.Generator, snap Snapshot) *Store {
	s := New(ids)
	s.accounts = append([]model.Account(nil), snap.Accounts...)
	s.customers = append([]model.Customer(nil), snap.Customers...)
	s.transactions = append([]model.Transaction(nil), snap.Transactions...)
	s.invoices = cloneInvoices(snap.Invoices)
	s.kpis = append([]model.KPI(nil), snap.KPIs...)
	s.insights = append([]model.Insight(nil), snap.Insights...)
	s.observeAll()
	return s
}

// Load reads a workbook directory into a new Store. Missing files load as
// empty collections; a missing insights.yaml loads the built-in insights.
func Load(dir string, ids *id.Generator) (*Store, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Accounts, err = accounts.Load(dir); err != nil {
		return nil, err
	}
	if snap.Customers, err = crm.Load(dir); err != nil {
		return nil, err
	}
	if snap.Transactions, err = ledger.Load(dir); err != nil {
		return nil, err
	}
	if snap.Invoices, err = invoice.Load(dir); err != nil {
		return nil, err
	}
	if snap.KPIs, err = kpi.Load(dir); err != nil {
		return nil, err
	}
	if snap.Insights, err = insights.Load(dir); err != nil {
		return nil, err
	}
	return NewFromSnapshot(ids, snap), nil
}

// Save writes every CSV collection under dir. Insights are read-only and
// are not written.
func (s *Store) Save(dir string) error {
	snap := s.Snapshot()
	if err := accounts.Save(dir, snap.Accounts); err != nil {
		return err
	}
	if err := crm.Save(dir, snap.Customers); err != nil {
		return err
	}
	if err := ledger.Save(dir, snap.Transactions); err != nil {
		return err
	}
	if err := invoice.Save(dir, snap.Invoices); err != nil {
		return err
	}
	if err := kpi.Save(dir, snap.KPIs); err != nil {
		return err
	}
	return nil
}

// Snapshot returns copies of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Accounts:     append([]model.Account(nil), s.accounts...),
		Customers:    append([]model.Customer(nil), s.customers...),
		Transactions: append([]model.Transaction(nil), s.transactions...),
		Invoices:     cloneInvoices(s.invoices),
		KPIs:         append([]model.KPI(nil), s.kpis...),
		Insights:     append([]model.Insight(nil), s.insights...),
	}
}

func (s *Store) observeAll() {
	for _, a := range s.accounts {
		s.ids.Observe(a.ID)
	}
	for _, c := range s.customers {
		s.ids.Observe(c.ID)
	}
	for _, t := range s.transactions {
		s.ids.Observe(t.ID)
	}
	for _, inv := range s.invoices {
		s.ids.Observe(inv.ID)
		for _, item := range inv.Items {
			s.ids.Observe(item.ID)
		}
	}
	for _, k := range s.kpis {
		s.ids.Observe(k.ID)
	}
}

// NextID hands out an identifier from the store's generator, for records
// built outside the store such as new invoice items.
func (s *Store) NextID() string {
	return s.ids.Next()
}

func cloneInvoices(in []model.Invoice) []model.Invoice {
	if in == nil {
		return nil
	}
	out := make([]model.Invoice, len(in))
	for i, inv := range in {
		out[i] = inv.Clone()
	}
	return out
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// update applies fn to the element whose key is id, in place.
func update[T any](items []T, id string, key func(T) string, fn func(T) T) (T, bool) {
	for i, item := range items {
		if key(item) == id {
			items[i] = fn(item)
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// remove returns items without the element whose key is id.
func remove[T any](items []T, id string, key func(T) string) ([]T, bool) {
	for i, item := range items {
		if key(item) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, item := range items {
		if key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
