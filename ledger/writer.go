package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// DefaultIndentation is the indentation for postings and comments.
	DefaultIndentation = 2

	// MinimumSpacing is the minimum number of spaces between an account
	// name and its amount.
	MinimumSpacing = 2
)

// Writer renders transactions in the line-oriented ledger format:
//
//	DATE[=DATE2] * PAYEE
//	  ; comment
//	  ACCOUNT  COMMODITY AMOUNT
//	  ACCOUNT
//
// followed by one blank line. Amounts within one transaction are aligned to
// the widest account name. Rendering is deterministic: identical
// transactions produce byte-identical output.
type Writer struct {
	w           io.Writer
	indentation int
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndentation overrides the indentation used for postings and comments.
func WithIndentation(n int) Option {
	return func(w *Writer) {
		w.indentation = n
	}
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	lw := &Writer{
		w:           w,
		indentation: DefaultIndentation,
	}
	for _, opt := range opts {
		opt(lw)
	}
	return lw
}

// WriteTransaction renders one transaction followed by a blank line.
func (w *Writer) WriteTransaction(txn *Transaction) error {
	var buf strings.Builder
	indent := strings.Repeat(" ", w.indentation)

	buf.WriteString(txn.Date.String())
	if txn.Date2 != nil {
		buf.WriteByte('=')
		buf.WriteString(txn.Date2.String())
	}
	buf.WriteString(" * ")
	buf.WriteString(txn.Payee)
	buf.WriteByte('\n')

	for _, comment := range txn.Comments {
		buf.WriteString(indent)
		buf.WriteString("; ")
		buf.WriteString(comment)
		buf.WriteByte('\n')
	}

	// Align amounts to the widest account in this transaction. Width is
	// measured in terminal cells so wide runes in account names do not
	// break the column.
	widest := 0
	for _, posting := range txn.Postings {
		if width := runewidth.StringWidth(posting.Account); width > widest {
			widest = width
		}
	}

	for _, posting := range txn.Postings {
		buf.WriteString(indent)
		buf.WriteString(posting.Account)
		if posting.Amount != nil {
			padding := widest - runewidth.StringWidth(posting.Account) + MinimumSpacing
			buf.WriteString(strings.Repeat(" ", padding))
			buf.WriteString(posting.Amount.String())
		}
		if posting.Comment != "" {
			buf.WriteString("  ; ")
			buf.WriteString(posting.Comment)
		}
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')

	_, err := io.WriteString(w.w, buf.String())
	if err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}
