// Package ledger defines the plain-text ledger output model and its text
// rendering. A Transaction is a dated group of Postings whose explicit
// amounts are expected to net to zero per commodity; a Posting without an
// amount is a placeholder whose balancing value is left for the consuming
// ledger tool to infer.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal quantity of a commodity. Currencies render bare
// (USD -1000); other commodities such as stock symbols render quoted
// ("ACME" 10).
type Amount struct {
	Commodity string
	Quoted    bool
	Value     decimal.Decimal
}

// NewAmount returns an Amount in a currency.
func NewAmount(currency string, value decimal.Decimal) Amount {
	return Amount{Commodity: currency, Value: value}
}

// NewCommodityAmount returns an Amount in a quoted commodity, used for
// security symbols that are not valid currency codes.
func NewCommodityAmount(symbol string, value decimal.Decimal) Amount {
	return Amount{Commodity: symbol, Quoted: true, Value: value}
}

// String renders the amount as "COMMODITY VALUE".
func (a Amount) String() string {
	var buf strings.Builder
	if a.Quoted {
		buf.WriteByte('"')
		buf.WriteString(escapeCommodity(a.Commodity))
		buf.WriteByte('"')
	} else {
		buf.WriteString(a.Commodity)
	}
	buf.WriteByte(' ')
	buf.WriteString(a.Value.String())
	return buf.String()
}

// escapeCommodity escapes double quotes and backslashes in quoted
// commodity symbols.
func escapeCommodity(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 2)
	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			buf.WriteRune(c)
		}
	}
	return buf.String()
}

// Posting is one line of a double-entry transaction. A nil Amount marks a
// placeholder posting whose value the downstream balancer infers.
type Posting struct {
	Account string
	Amount  *Amount
	Comment string
}

// NewPosting returns a posting with an explicit amount.
func NewPosting(account string, amount Amount) Posting {
	return Posting{Account: account, Amount: &amount}
}

// NewPlaceholderPosting returns an account-only posting with no amount.
func NewPlaceholderPosting(account string) Posting {
	return Posting{Account: account}
}

// Transaction is a dated, named group of postings. Date2 is the optional
// secondary date rendered as DATE=DATE2 in the header, used to carry both
// settlement and trade date for trades.
type Transaction struct {
	Date     Date
	Date2    *Date
	Payee    string
	Comments []string
	Postings []Posting
}
