// Package config loads the account mapping and Flex web service
// credentials from a JSON file. The configuration is loaded once before
// any processing and is immutable for the run; a missing field is fatal.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config maps domain roles to ledger account names and carries the Flex
// web service credentials.
type Config struct {
	// StockAccount is the asset account for stock positions.
	StockAccount string `json:"stock_account"`
	// CashAccount is the asset account for cash positions.
	CashAccount string `json:"cash_account"`
	// FeesAccount is the expenses account for fees and commissions.
	FeesAccount string `json:"fees_account"`
	// DividendsAccount is the revenue account for dividend income.
	DividendsAccount string `json:"dividends_account"`
	// WithholdingsAccount is the expenses account for withholding tax.
	WithholdingsAccount string `json:"withholdings_account"`
	// InterestIncomeAccount is the revenue account for interest received.
	InterestIncomeAccount string `json:"interest_income_account"`
	// InterestExpenseAccount is the expenses account for interest paid.
	InterestExpenseAccount string `json:"interest_expense_account"`

	// APIToken authenticates against the IBKR Flex web service.
	APIToken string `json:"api_token"`
	// QueryID identifies the Flex query to execute.
	QueryID string `json:"query_id"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports all missing required fields at once.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"stock_account", c.StockAccount},
		{"cash_account", c.CashAccount},
		{"fees_account", c.FeesAccount},
		{"dividends_account", c.DividendsAccount},
		{"withholdings_account", c.WithholdingsAccount},
		{"interest_income_account", c.InterestIncomeAccount},
		{"interest_expense_account", c.InterestExpenseAccount},
		{"api_token", c.APIToken},
		{"query_id", c.QueryID},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
