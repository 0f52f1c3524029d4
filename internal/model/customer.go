package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerStatus is the relationship stage of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
	CustomerProspect CustomerStatus = "Prospect"
)

// Valid reports whether s is a known customer status.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerProspect:
		return true
	}
	return false
}

// Customer is a CRM record.
type Customer struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Company      string          `json:"company"`
	Status       CustomerStatus  `json:"status"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	LastContact  time.Time       `json:"lastContact"`
	Notes        string          `json:"notes"`
	Created      time.Time       `json:"created"`
}

// CustomerPatch holds the fields to change on a customer.
type CustomerPatch struct {
	Name         *string          `json:"name,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	Company      *string          `json:"company,omitempty"`
	Status       *CustomerStatus  `json:"status,omitempty"`
	TotalRevenue *decimal.Decimal `json:"totalRevenue,omitempty"`
	LastContact  *time.Time       `json:"lastContact,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// Apply returns a copy of c with the non-nil patch fields merged in.
func (p CustomerPatch) Apply(c Customer) Customer {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.TotalRevenue != nil {
		c.TotalRevenue = *p.TotalRevenue
	}
	if p.LastContact != nil {
		c.LastContact = *p.LastContact
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	return c
}
