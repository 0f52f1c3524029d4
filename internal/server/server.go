// Package server exposes a workbook as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerdash/internal/logger"
	"github.com/cleared-dev/ledgerdash/internal/model"
	"github.com/cleared-dev/ledgerdash/internal/workbook"
)

// Actor is recorded in the activity log for changes made over the API.
const Actor = "api"

const shutdownTimeout = 5 * time.Second

// Server serves one workbook.
type Server struct {
	wb     *workbook.Workbook
	engine *gin.Engine
	log    zerolog.Logger
}

// New builds the gin engine and routes for wb.
func New(wb *workbook.Workbook) *Server {
	s := &Server{
		wb:  wb,
		log: logger.WithComponent("server"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(corsConfig(wb.Config.Server.AllowOrigins)))
	s.routes(r.Group("/api/v1"))
	s.engine = r
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("workbook", s.wb.Dir).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := s.log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) routes(api *gin.RouterGroup) {
	api.GET("/dashboard", s.dashboard)
	api.GET("/activity", s.activity)

	reports := api.Group("/reports")
	reports.GET("/balance-sheet", s.balanceSheet)
	reports.GET("/income-statement", s.incomeStatement)
	reports.GET("/trial-balance", s.trialBalance)
	reports.GET("/cash-flow", s.cashFlow)

	api.GET("/accounts", s.listAccounts)
	api.POST("/accounts", s.createAccount)
	api.GET("/accounts/:id", s.getAccount)
	api.PATCH("/accounts/:id", s.updateAccount)
	api.DELETE("/accounts/:id", s.deleteAccount)

	api.GET("/customers", s.listCustomers)
	api.POST("/customers", s.createCustomer)
	api.GET("/customers/:id", s.getCustomer)
	api.PATCH("/customers/:id", s.updateCustomer)
	api.DELETE("/customers/:id", s.deleteCustomer)

	api.GET("/transactions", s.listTransactions)
	api.POST("/transactions", s.createTransaction)
	api.GET("/transactions/check", s.checkTransactions)
	api.GET("/transactions/:id", s.getTransaction)
	api.PATCH("/transactions/:id", s.updateTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)

	api.GET("/invoices", s.listInvoices)
	api.POST("/invoices", s.createInvoice)
	api.GET("/invoices/:id", s.getInvoice)
	api.PATCH("/invoices/:id", s.updateInvoice)
	api.DELETE("/invoices/:id", s.deleteInvoice)
	api.POST("/invoices/:id/send", s.invoiceStatus(model.InvoiceSent))
	api.POST("/invoices/:id/pay", s.invoiceStatus(model.InvoicePaid))
	api.POST("/invoices/:id/items", s.addInvoiceItem)
	api.PATCH("/invoices/:id/items/:itemId", s.updateInvoiceItem)
	api.DELETE("/invoices/:id/items/:itemId", s.removeInvoiceItem)

	api.GET("/kpis", s.listKPIs)
	api.POST("/kpis", s.createKPI)
	api.GET("/kpis/:id", s.getKPI)
	api.PATCH("/kpis/:id", s.updateKPI)
	api.DELETE("/kpis/:id", s.deleteKPI)

	api.GET("/insights", s.listInsights)
}
