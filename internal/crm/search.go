// Package crm holds customer records: storage, search and counts.
package crm

import (
	"strings"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// UnknownCustomer is shown when an invoice points at a missing customer.
const UnknownCustomer = "Unknown Customer"

// Search returns customers whose name, email or company contains term,
// ignoring case. An empty term matches everything.
func Search(customers []model.Customer, term string) []model.Customer {
	term = strings.ToLower(term)
	var out []model.Customer
	for _, c := range customers {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Email), term) ||
			strings.Contains(strings.ToLower(c.Company), term) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the customer with the given id.
func Find(customers []model.Customer, id string) (model.Customer, bool) {
	for _, c := range customers {
		if c.ID == id {
			return c, true
		}
	}
	return model.Customer{}, false
}

// Name returns the customer's name, or UnknownCustomer.
func Name(customers []model.Customer, id string) string {
	if c, ok := Find(customers, id); ok {
		return c.Name
	}
	return UnknownCustomer
}

// CountByStatus tallies customers per status.
func CountByStatus(customers []model.Customer) map[model.CustomerStatus]int {
	counts := make(map[model.CustomerStatus]int)
	for _, c := range customers {
		counts[c.Status]++
	}
	return counts
}
