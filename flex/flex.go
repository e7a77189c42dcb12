// Package flex models Interactive Brokers Flex Query activity statements.
// It decodes the XML report produced by the Flex web service into typed
// records and provides a client for the generate-wait-retrieve round trip
// against the web service itself.
//
// Numeric and date attributes are kept as the raw strings found in the
// report. The report is configurable on the IBKR side and individual
// records may miss fields, so conversion happens at the point of use where
// a malformed record can be skipped without failing the whole statement.
package flex

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Asset categories as reported in the assetCategory attribute.
const (
	AssetCategoryStock = "STK"
	AssetCategoryFX    = "CASH"
)

// Cash transaction type labels as reported in the type attribute.
const (
	TypeDividends              = "Dividends"
	TypeWithholdingTax         = "Withholding Tax"
	TypeBrokerInterestReceived = "Broker Interest Received"
	TypeBrokerInterestPaid     = "Broker Interest Paid"
	TypeOtherFees              = "Other Fees"
	TypeDepositsWithdrawals    = "Deposits/Withdrawals"

	levelOfDetailDetail = "DETAIL"
)

// QueryResponse is the root element of a retrieved Flex Query report.
type QueryResponse struct {
	XMLName    xml.Name    `xml:"FlexQueryResponse"`
	Statements []Statement `xml:"FlexStatements>FlexStatement"`
}

// Statement holds all activity for one account and period.
type Statement struct {
	AccountID          string             `xml:"accountId,attr"`
	FromDate           string             `xml:"fromDate,attr"`
	ToDate             string             `xml:"toDate,attr"`
	AccountInformation AccountInformation `xml:"AccountInformation"`
	Trades             []Trade            `xml:"Trades>Trade"`
	CashTransactions   []CashTransaction  `xml:"CashTransactions>CashTransaction"`
}

// AccountInformation carries the account metadata of a statement.
type AccountInformation struct {
	Name string `xml:"name,attr"`
}

// Trade is a single trade execution.
type Trade struct {
	TradeID            string `xml:"tradeID,attr"`
	OrderID            string `xml:"ibOrderID,attr"`
	DateTime           string `xml:"dateTime,attr"`
	TradeDate          string `xml:"tradeDate,attr"`
	SettleDate         string `xml:"settleDateTarget,attr"`
	Exchange           string `xml:"exchange,attr"`
	AssetCategory      string `xml:"assetCategory,attr"`
	Symbol             string `xml:"symbol,attr"`
	Currency           string `xml:"currency,attr"`
	Quantity           string `xml:"quantity,attr"`
	Proceeds           string `xml:"proceeds,attr"`
	Commission         string `xml:"ibCommission,attr"`
	CommissionCurrency string `xml:"ibCommissionCurrency,attr"`
}

// CashTransaction is a single non-trade cash movement (dividend, tax,
// interest, fee, transfer).
type CashTransaction struct {
	Conid         string `xml:"conid,attr"`
	DateTime      string `xml:"dateTime,attr"`
	Type          string `xml:"type,attr"`
	ReportDate    string `xml:"reportDate,attr"`
	Description   string `xml:"description,attr"`
	Currency      string `xml:"currency,attr"`
	Amount        string `xml:"amount,attr"`
	Symbol        string `xml:"symbol,attr"`
	LevelOfDetail string `xml:"levelOfDetail,attr"`
}

// Parse decodes a Flex Query report. Cash transactions are filtered to
// DETAIL level; summary rows duplicate them and are dropped.
func Parse(r io.Reader) (*QueryResponse, error) {
	var response QueryResponse
	if err := xml.NewDecoder(r).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode flex report: %w", err)
	}

	for i := range response.Statements {
		statement := &response.Statements[i]
		detail := statement.CashTransactions[:0]
		for _, record := range statement.CashTransactions {
			if record.LevelOfDetail == levelOfDetailDetail {
				detail = append(detail, record)
			}
		}
		statement.CashTransactions = detail
	}

	return &response, nil
}

// FirstStatement returns the first statement of the report, or an error if
// the report contains none.
func (r *QueryResponse) FirstStatement() (*Statement, error) {
	if len(r.Statements) == 0 {
		return nil, fmt.Errorf("flex report contains no statements")
	}
	return &r.Statements[0], nil
}
