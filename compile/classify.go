package compile

import "github.com/robinvdvleuten/flex2ledger/flex"

// Event is a classified cash event. The concrete types are
// DividendWithWithholding and Single; classification of a group is
// exhaustive and exclusive, every record of the group appears in exactly
// one event.
type Event interface {
	event()
}

// DividendWithWithholding pairs a dividend with the withholding tax
// deducted from it, so both legs land in one ledger transaction.
type DividendWithWithholding struct {
	Dividend flex.CashTransaction
	Tax      flex.CashTransaction
}

func (DividendWithWithholding) event() {}

// Single is an independent cash event of the given type.
type Single struct {
	Type   string
	Record flex.CashTransaction
}

func (Single) event() {}

// Classify resolves a group into events. When the group holds exactly one
// Dividends record and exactly one Withholding Tax record they are paired
// into a DividendWithWithholding event; every other record becomes a
// Single. Multiple dividends or multiple withholdings in one group cannot
// be matched up reliably, so they all fall through to Single handling.
func Classify(group Group) []Event {
	byType := make(map[string][]flex.CashTransaction)
	var order []string
	for _, record := range group.Records {
		if _, ok := byType[record.Type]; !ok {
			order = append(order, record.Type)
		}
		byType[record.Type] = append(byType[record.Type], record)
	}

	events := make([]Event, 0, len(group.Records))

	if len(byType[flex.TypeDividends]) == 1 && len(byType[flex.TypeWithholdingTax]) == 1 {
		events = append(events, DividendWithWithholding{
			Dividend: byType[flex.TypeDividends][0],
			Tax:      byType[flex.TypeWithholdingTax][0],
		})
		delete(byType, flex.TypeDividends)
		delete(byType, flex.TypeWithholdingTax)
	}

	for _, typ := range order {
		for _, record := range byType[typ] {
			events = append(events, Single{Type: typ, Record: record})
		}
	}

	return events
}
