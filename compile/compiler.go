package compile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/flex2ledger/config"
	"github.com/robinvdvleuten/flex2ledger/flex"
	"github.com/robinvdvleuten/flex2ledger/ledger"
)

// TemporalSource reports the most recent transaction date recorded against
// an account in the destination ledger. A zero Date means "no prior
// transactions, keep everything"; implementations degrade to it on any
// failure rather than erroring.
type TemporalSource interface {
	LatestTransactionDate(ctx context.Context, account string) ledger.Date
}

// Compiler turns a Flex statement into ledger output. It is a pure
// function of the statement, the account mapping and its options: running
// it twice over the same input yields byte-identical output.
type Compiler struct {
	cfg                       *config.Config
	cutoff                    ledger.Date
	ignoreDepositsWithdrawals bool
	diag                      io.Writer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCutoff drops every trade and cash event group dated on or before
// the given date. The zero Date keeps everything.
func WithCutoff(cutoff ledger.Date) Option {
	return func(c *Compiler) {
		c.cutoff = cutoff
	}
}

// WithIgnoreDepositsWithdrawals suppresses Deposits/Withdrawals events
// entirely, for setups where transfers are booked from the bank side.
func WithIgnoreDepositsWithdrawals() Option {
	return func(c *Compiler) {
		c.ignoreDepositsWithdrawals = true
	}
}

// WithDiagnostics directs skip and drop reports to w. Diagnostics are kept
// separate from ledger output so the output stream stays parseable.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Compiler) {
		c.diag = w
	}
}

// New creates a Compiler for the given account mapping.
func New(cfg *config.Config, opts ...Option) *Compiler {
	c := &Compiler{
		cfg:  cfg,
		diag: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile writes the ledger transactions for a statement to out: trades
// first, sorted by execution time, then cash events, sorted by group
// timestamp. Record-level problems are reported to the diagnostics writer
// and skipped; only output errors abort the run.
func (c *Compiler) Compile(statement *flex.Statement, out io.Writer) error {
	w := ledger.NewWriter(out)

	if err := c.compileTrades(statement.Trades, w); err != nil {
		return err
	}
	return c.compileCashTransactions(statement.CashTransactions, w)
}

func (c *Compiler) compileTrades(trades []flex.Trade, w *ledger.Writer) error {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b flex.Trade) int {
		return strings.Compare(a.DateTime, b.DateTime)
	})

	for _, trade := range sorted {
		if c.dropBeforeCutoff(trade.TradeDate) {
			continue
		}

		var (
			txn *ledger.Transaction
			err error
		)
		switch trade.AssetCategory {
		case flex.AssetCategoryStock:
			txn, err = EmitStockTrade(trade, c.cfg)
		case flex.AssetCategoryFX:
			txn, err = EmitFXTrade(trade, c.cfg)
		default:
			c.reportf("dropping trade %s with unknown assetCategory=%q", trade.TradeID, trade.AssetCategory)
			continue
		}
		if err != nil {
			c.reportf("skipping malformed record: %v", err)
			continue
		}

		if err := w.WriteTransaction(txn); err != nil {
			return err
		}
	}

	return nil
}

func (c *Compiler) compileCashTransactions(records []flex.CashTransaction, w *ledger.Writer) error {
	groups := GroupCashTransactions(records)
	slices.SortStableFunc(groups, func(a, b Group) int {
		return strings.Compare(a.DateTime, b.DateTime)
	})

	for _, group := range groups {
		if c.dropBeforeCutoff(group.DateTime) {
			continue
		}

		for _, event := range Classify(group) {
			var (
				txn *ledger.Transaction
				err error
			)
			switch ev := event.(type) {
			case DividendWithWithholding:
				txn, err = EmitDividendWithWithholding(ev, c.cfg)
			case Single:
				if ev.Type == flex.TypeDepositsWithdrawals && c.ignoreDepositsWithdrawals {
					continue
				}
				txn, err = EmitSingle(ev, c.cfg)
			default:
				return fmt.Errorf("unhandled event type %T", event)
			}
			if err != nil {
				c.reportf("skipping malformed record: %v", err)
				continue
			}

			if err := w.WriteTransaction(txn); err != nil {
				return err
			}
		}
	}

	return nil
}

// dropBeforeCutoff reports whether a record dated by the given value falls
// on or before the cutoff. Unparseable dates are kept here; emission
// decides whether the record is usable at all.
func (c *Compiler) dropBeforeCutoff(value string) bool {
	if c.cutoff.IsZero() {
		return false
	}
	date, err := flex.ParseDateTime(value)
	if err != nil {
		return false
	}
	return !date.After(c.cutoff.Time)
}

func (c *Compiler) reportf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.diag, format+"\n", args...)
}
