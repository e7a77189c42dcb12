package compile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/flex2ledger/config"
	"github.com/robinvdvleuten/flex2ledger/flex"
	"github.com/robinvdvleuten/flex2ledger/ledger"
)

// UnknownAccount is the sentinel account for postings whose real
// counterpart is unknown to the statement and must be reconciled manually.
const UnknownAccount = "UNKNOWN_ACCOUNT"

const (
	brokerPayee  = "Interactive Brokers"
	unknownPayee = "UNKNOWN"
)

// EmitStockTrade maps a stock trade onto a ledger transaction: the stock
// position in shares, the cash proceeds, and the commission isolated as a
// zero-sum pair between the cash and fees accounts.
func EmitStockTrade(trade flex.Trade, cfg *config.Config) (*ledger.Transaction, error) {
	txn, err := tradeTransaction(trade)
	if err != nil {
		return nil, err
	}

	record := tradeRecordName(trade)
	quantity, err := parseAmount(record, "quantity", trade.Quantity)
	if err != nil {
		return nil, err
	}
	proceeds, err := parseAmount(record, "proceeds", trade.Proceeds)
	if err != nil {
		return nil, err
	}
	if err := requireField(record, "symbol", trade.Symbol); err != nil {
		return nil, err
	}
	if err := requireField(record, "currency", trade.Currency); err != nil {
		return nil, err
	}

	txn.Postings = append(txn.Postings,
		ledger.NewPosting(cfg.StockAccount, ledger.NewCommodityAmount(trade.Symbol, quantity)),
		ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(trade.Currency, proceeds)),
	)

	fees, err := feePostings(trade, cfg)
	if err != nil {
		return nil, err
	}
	txn.Postings = append(txn.Postings, fees...)

	return txn, nil
}

// EmitFXTrade maps a currency conversion onto a ledger transaction. The
// symbol names the currency pair as BASE.QUOTE; quantity moves in the base
// currency, proceeds in the quote currency, both against the cash account.
func EmitFXTrade(trade flex.Trade, cfg *config.Config) (*ledger.Transaction, error) {
	base, quote, ok := strings.Cut(trade.Symbol, ".")
	if !ok || base == "" || quote == "" || strings.Contains(quote, ".") {
		return nil, &MalformedSymbolError{TradeID: trade.TradeID, Symbol: trade.Symbol}
	}

	txn, err := tradeTransaction(trade)
	if err != nil {
		return nil, err
	}

	record := tradeRecordName(trade)
	quantity, err := parseAmount(record, "quantity", trade.Quantity)
	if err != nil {
		return nil, err
	}
	proceeds, err := parseAmount(record, "proceeds", trade.Proceeds)
	if err != nil {
		return nil, err
	}

	txn.Postings = append(txn.Postings,
		ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(base, quantity)),
		ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(quote, proceeds)),
	)

	fees, err := feePostings(trade, cfg)
	if err != nil {
		return nil, err
	}
	txn.Postings = append(txn.Postings, fees...)

	return txn, nil
}

// EmitDividendWithWithholding maps a paired dividend and withholding tax
// onto one transaction. Both income legs carry explicit negated amounts;
// the cash leg is a placeholder whose inferred value is the net amount
// actually received.
func EmitDividendWithWithholding(event DividendWithWithholding, cfg *config.Config) (*ledger.Transaction, error) {
	dividend, tax := event.Dividend, event.Tax

	record := cashRecordName(dividend)
	reportDate, err := parseReportDate(record, dividend.ReportDate)
	if err != nil {
		return nil, err
	}
	dividendAmount, err := parseAmount(record, "amount", dividend.Amount)
	if err != nil {
		return nil, err
	}
	if err := requireField(record, "currency", dividend.Currency); err != nil {
		return nil, err
	}

	taxRecord := cashRecordName(tax)
	taxAmount, err := parseAmount(taxRecord, "amount", tax.Amount)
	if err != nil {
		return nil, err
	}
	if err := requireField(taxRecord, "currency", tax.Currency); err != nil {
		return nil, err
	}

	return &ledger.Transaction{
		Date:     reportDate,
		Payee:    dividend.Symbol,
		Comments: descriptionComments(dividend.Description),
		Postings: []ledger.Posting{
			ledger.NewPosting(cfg.DividendsAccount, ledger.NewAmount(dividend.Currency, dividendAmount.Neg())),
			ledger.NewPosting(cfg.WithholdingsAccount, ledger.NewAmount(tax.Currency, taxAmount.Neg())),
			ledger.NewPlaceholderPosting(cfg.CashAccount),
		},
	}, nil
}

// EmitSingle maps an independent cash event onto a transaction. Recognized
// types post the negated amount to their role account against a cash
// placeholder. Deposits and withdrawals post the raw amount against the
// UNKNOWN_ACCOUNT sentinel, since their counterpart is outside the
// statement. Unrecognized types post the raw amount to cash and guess the
// counterpart: fees when the amount is negative, the sentinel otherwise.
func EmitSingle(event Single, cfg *config.Config) (*ledger.Transaction, error) {
	record := event.Record

	name := cashRecordName(record)
	reportDate, err := parseReportDate(name, record.ReportDate)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(name, "amount", record.Amount)
	if err != nil {
		return nil, err
	}
	if err := requireField(name, "currency", record.Currency); err != nil {
		return nil, err
	}

	txn := &ledger.Transaction{
		Date:     reportDate,
		Comments: descriptionComments(record.Description),
	}

	switch event.Type {
	case flex.TypeDividends:
		txn.Payee = record.Symbol
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.DividendsAccount, ledger.NewAmount(record.Currency, amount.Neg())),
			ledger.NewPlaceholderPosting(cfg.CashAccount),
		}

	case flex.TypeBrokerInterestReceived:
		txn.Payee = brokerPayee
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.InterestIncomeAccount, ledger.NewAmount(record.Currency, amount.Neg())),
			ledger.NewPlaceholderPosting(cfg.CashAccount),
		}

	case flex.TypeBrokerInterestPaid:
		txn.Payee = brokerPayee
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.InterestExpenseAccount, ledger.NewAmount(record.Currency, amount.Neg())),
			ledger.NewPlaceholderPosting(cfg.CashAccount),
		}

	case flex.TypeOtherFees:
		txn.Payee = brokerPayee
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.FeesAccount, ledger.NewAmount(record.Currency, amount.Neg())),
			ledger.NewPlaceholderPosting(cfg.CashAccount),
		}

	case flex.TypeDepositsWithdrawals:
		txn.Payee = unknownPayee
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(record.Currency, amount)),
			ledger.NewPlaceholderPosting(UnknownAccount),
		}

	default:
		txn.Payee = brokerPayee
		txn.Comments = append(txn.Comments, "cash_transaction_type: "+event.Type)
		counterpart := UnknownAccount
		if amount.IsNegative() {
			counterpart = cfg.FeesAccount
		}
		txn.Postings = []ledger.Posting{
			ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(record.Currency, amount)),
			ledger.NewPlaceholderPosting(counterpart),
		}
	}

	return txn, nil
}

// tradeTransaction builds the dated header shared by all trade templates:
// settlement date as primary, trade date as secondary, the exchange as
// payee and the trade and order identifiers as comments.
func tradeTransaction(trade flex.Trade) (*ledger.Transaction, error) {
	record := tradeRecordName(trade)

	settleDate, err := parseDateField(record, "settleDateTarget", trade.SettleDate)
	if err != nil {
		return nil, err
	}
	tradeDate, err := parseDateField(record, "tradeDate", trade.TradeDate)
	if err != nil {
		return nil, err
	}

	return &ledger.Transaction{
		Date:  settleDate,
		Date2: &tradeDate,
		Payee: trade.Exchange,
		Comments: []string{
			"trade_id: " + trade.TradeID,
			"order_id: " + trade.OrderID,
		},
	}, nil
}

// feePostings isolates the commission as a pair that nets to zero: the
// cash account pays the raw commission, the fees account receives its
// negation. This keeps the fee auditable as its own leg.
func feePostings(trade flex.Trade, cfg *config.Config) ([]ledger.Posting, error) {
	record := tradeRecordName(trade)

	commission, err := parseAmount(record, "ibCommission", trade.Commission)
	if err != nil {
		return nil, err
	}
	if err := requireField(record, "ibCommissionCurrency", trade.CommissionCurrency); err != nil {
		return nil, err
	}

	return []ledger.Posting{
		ledger.NewPosting(cfg.CashAccount, ledger.NewAmount(trade.CommissionCurrency, commission)),
		ledger.NewPosting(cfg.FeesAccount, ledger.NewAmount(trade.CommissionCurrency, commission.Neg())),
	}, nil
}

func descriptionComments(description string) []string {
	if description == "" {
		return nil
	}
	return []string{description}
}

func tradeRecordName(trade flex.Trade) string {
	return fmt.Sprintf("trade %s", trade.TradeID)
}

func cashRecordName(record flex.CashTransaction) string {
	return fmt.Sprintf("cash transaction %q (%s)", record.Description, record.Type)
}

func parseAmount(record, field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, &MalformedRecordError{Record: record, Field: field}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &MalformedRecordError{Record: record, Field: field, Value: value, Err: err}
	}
	return d, nil
}

func parseDateField(record, field, value string) (ledger.Date, error) {
	if value == "" {
		return ledger.Date{}, &MalformedRecordError{Record: record, Field: field}
	}
	d, err := flex.ParseDate(value)
	if err != nil {
		return ledger.Date{}, &MalformedRecordError{Record: record, Field: field, Value: value, Err: err}
	}
	return d, nil
}

func parseReportDate(record, value string) (ledger.Date, error) {
	return parseDateField(record, "reportDate", value)
}

func requireField(record, field, value string) error {
	if value == "" {
		return &MalformedRecordError{Record: record, Field: field}
	}
	return nil
}
