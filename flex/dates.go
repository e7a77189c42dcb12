package flex

import (
	"fmt"
	"time"

	"github.com/robinvdvleuten/flex2ledger/ledger"
)

// Date layouts that appear in Flex reports depending on how the query is
// configured on the IBKR side.
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02;15:04:05",
	"20060102;150405",
	"2006-01-02",
	"20060102",
}

// ParseDate parses a date attribute such as tradeDate or reportDate.
func ParseDate(value string) (ledger.Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return ledger.NewDate(t.Date()), nil
		}
	}
	return ledger.Date{}, fmt.Errorf("invalid flex date: %q", value)
}

// ParseDateTime parses a dateTime attribute and returns the date part.
func ParseDateTime(value string) (ledger.Date, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return ledger.NewDate(t.Date()), nil
		}
	}
	return ledger.Date{}, fmt.Errorf("invalid flex dateTime: %q", value)
}
