// Package config reads and writes ledgerdash.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerdash/internal/invoice"
	"github.com/cleared-dev/ledgerdash/internal/logger"
	"github.com/cleared-dev/ledgerdash/internal/report"
)

// FileName is the config file at the workbook root.
const FileName = "ledgerdash.yaml"

// Environment variables that override file settings.
const (
	EnvAddr      = "LEDGERDASH_ADDR"
	EnvLogLevel  = "LEDGERDASH_LOG_LEVEL"
	EnvLogFormat = "LEDGERDASH_LOG_FORMAT"
)

// Config represents the top-level ledgerdash.yaml configuration.
type Config struct {
	Business     BusinessConfig `yaml:"business"`
	Fiscal       FiscalConfig   `yaml:"fiscal"`
	Invoice      InvoiceConfig  `yaml:"invoice"`
	CashFlow     CashFlowConfig `yaml:"cash_flow"`
	BankAccounts []BankAccount  `yaml:"bank_accounts,omitempty"`
	Import       ImportConfig   `yaml:"import"`
	Git          GitConfig      `yaml:"git"`
	Log          LogConfig      `yaml:"log"`
	Server       ServerConfig   `yaml:"server"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
	Currency   string `yaml:"currency"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// InvoiceConfig holds defaults for new invoices. Discount and VATRate
// apply to any invoice that does not set its own.
type InvoiceConfig struct {
	NumberPrefix string          `yaml:"number_prefix"`
	DueDays      int             `yaml:"due_days"`
	Discount     decimal.Decimal `yaml:"discount"`
	VATRate      decimal.Decimal `yaml:"vat_rate"`
}

// CashFlowConfig holds the cash flow figures that do not come from the
// chart of accounts. Outflows are negative.
type CashFlowConfig struct {
	Depreciation       decimal.Decimal `yaml:"depreciation"`
	WorkingCapital     decimal.Decimal `yaml:"working_capital"`
	EquipmentPurchases decimal.Decimal `yaml:"equipment_purchases"`
	OwnerInvestment    decimal.Decimal `yaml:"owner_investment"`
}

// BankAccount maps a bank feed to a chart-of-accounts entry.
type BankAccount struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format"` // importer parser name, e.g. "chase"
	LastFour string `yaml:"last_four"`
	Account  string `yaml:"account"` // account id or code
}

// ImportConfig controls bank statement imports.
type ImportConfig struct {
	ClearingAccount string `yaml:"clearing_account"`
	ReferencePrefix string `yaml:"reference_prefix"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output,omitempty"`
}

// ServerConfig controls the JSON API.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

// Path returns the config path inside a workbook.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads a ledgerdash.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides file settings from the environment. Unset or empty
// variables leave the file value alone.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// Logger converts the log section for logger.Setup.
func (c *Config) Logger() logger.LogConfig {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	return lc
}

// InvoiceDefaults returns the discount and VAT rate used when an invoice
// carries none.
func (c *Config) InvoiceDefaults() invoice.Defaults {
	return invoice.Defaults{Discount: c.Invoice.Discount, VATRate: c.Invoice.VATRate}
}

// CashFlowAdjustments returns the configured cash flow figures.
func (c *Config) CashFlowAdjustments() report.CashFlowAdjustments {
	return report.CashFlowAdjustments{
		Depreciation:       c.CashFlow.Depreciation,
		WorkingCapital:     c.CashFlow.WorkingCapital,
		EquipmentPurchases: c.CashFlow.EquipmentPurchases,
		OwnerInvestment:    c.CashFlow.OwnerInvestment,
	}
}

// BankAccount returns the bank account named name, or the first one when
// name is empty.
func (c *Config) BankAccount(name string) (BankAccount, bool) {
	for _, b := range c.BankAccounts {
		if name == "" || b.Name == name {
			return b, true
		}
	}
	return BankAccount{}, false
}

// Default returns a Config with sensible defaults for a new workbook.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			Currency:   "USD",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Invoice: InvoiceConfig{
			NumberPrefix: "INV",
			DueDays:      30,
			Discount:     decimal.Zero,
			VATRate:      decimal.RequireFromString("0.05"),
		},
		CashFlow: CashFlowConfig{
			Depreciation:       decimal.Zero,
			WorkingCapital:     decimal.Zero,
			EquipmentPurchases: decimal.Zero,
			OwnerInvestment:    decimal.Zero,
		},
		Import: ImportConfig{
			ClearingAccount: "6900",
			ReferencePrefix: "BANK",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "ledgerdash",
			AuthorEmail: "ledgerdash@localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}
