package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

func (s *Server) listInvoices(c *gin.Context) {
	all := s.wb.Store.Invoices()
	customers := s.wb.Store.Customers()
	list := invoice.Search(all, customers, c.Query("q"), c.Query("status"))

	views := make([]invoiceView, 0, len(list))
	for _, inv := range list {
		views = append(views, s.newInvoiceView(inv, customers))
	}
	c.JSON(http.StatusOK, gin.H{
		"invoices": views,
		"counts":   invoice.CountByStatus(all),
		"total":    invoice.TotalAmount(list),
	})
}

func (s *Server) getInvoice(c *gin.Context) {
	inv, err := s.wb.Store.Invoice(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.newInvoiceView(inv, s.wb.Store.Customers()))
}

// respondInvoice re-reads the invoice so the response carries the stored
// item ids and amounts.
func (s *Server) respondInvoice(c *gin.Context, status int, id string) {
	inv, err := s.wb.Store.Invoice(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, s.newInvoiceView(inv, s.wb.Store.Customers()))
}

func (s *Server) createInvoice(c *gin.Context) {
	var req model.Invoice
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown invoice status %q", req.Status))
		return
	}
	inv, _ := s.wb.Store.AddInvoice(s.wb.InvoiceDefaults(req))
	if !s.record(c, activity.ActionCreate, "invoice", inv.ID, inv.Number) {
		return
	}
	c.JSON(http.StatusCreated, s.newInvoiceView(inv, s.wb.Store.Customers()))
}

func (s *Server) updateInvoice(c *gin.Context) {
	var p model.InvoicePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	if p.Status != nil && !p.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown invoice status %q", *p.Status))
		return
	}
	if p.Items != nil {
		if err := invoice.RequireItems(*p.Items); err != nil {
			s.fail(c, err)
			return
		}
	}
	id := c.Param("id")
	if _, err := s.wb.Store.UpdateInvoice(id, p); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionUpdate, "invoice", id, "") {
		return
	}
	s.respondInvoice(c, http.StatusOK, id)
}

func (s *Server) deleteInvoice(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.wb.Store.DeleteInvoice(id); err != nil {
		s.fail(c, err)
		return
	}
	if !s.record(c, activity.ActionDelete, "invoice", id, "") {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) invoiceStatus(status model.InvoiceStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := s.wb.Store.SetInvoiceStatus(id, status); err != nil {
			s.fail(c, err)
			return
		}
		if !s.record(c, activity.ActionUpdate, "invoice", id, "status "+string(status)) {
			return
		}
		s.respondInvoice(c, http.StatusOK, id)
	}
}

// editItems runs edit on the invoice's items under the store lock and
// records the change.
func (s *Server) editItems(c *gin.Context, id, details string, edit func([]model.InvoiceItem) ([]model.InvoiceItem, error)) bool {
	if _, err := s.wb.Store.UpdateInvoiceItems(id, edit); err != nil {
		s.fail(c, err)
		return false
	}
	return s.record(c, activity.ActionUpdate, "invoice", id, details)
}

func (s *Server) addInvoiceItem(c *gin.Context) {
	var req struct {
		Description string           `json:"description" binding:"required"`
		Quantity    *decimal.Decimal `json:"quantity"`
		Rate        decimal.Decimal  `json:"rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item := invoice.NewItem(s.wb.Store.NextID())
	item.Description = req.Description
	item.Rate = req.Rate
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	id := c.Param("id")
	add := func(items []model.InvoiceItem) ([]model.InvoiceItem, error) {
		return invoice.AppendItem(items, item)
	}
	if !s.editItems(c, id, "add item "+req.Description, add) {
		return
	}
	s.respondInvoice(c, http.StatusCreated, id)
}

func (s *Server) updateInvoiceItem(c *gin.Context) {
	var p invoice.ItemPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id, itemID := c.Param("id"), c.Param("itemId")
	patch := func(items []model.InvoiceItem) ([]model.InvoiceItem, error) {
		return invoice.PatchItem(items, itemID, p)
	}
	if !s.editItems(c, id, "update item", patch) {
		return
	}
	s.respondInvoice(c, http.StatusOK, id)
}

func (s *Server) removeInvoiceItem(c *gin.Context) {
	id, itemID := c.Param("id"), c.Param("itemId")
	del := func(items []model.InvoiceItem) ([]model.InvoiceItem, error) {
		return invoice.DeleteItem(items, itemID)
	}
	if !s.editItems(c, id, "remove item", del) {
		return
	}
	s.respondInvoice(c, http.StatusOK, id)
}
