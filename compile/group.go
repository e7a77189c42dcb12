// Package compile turns a parsed Flex statement into ledger transactions.
// It groups related cash transactions, classifies each group into events,
// maps trades and events onto balanced posting templates and writes the
// result in a stable, deterministic order.
package compile

import "github.com/robinvdvleuten/flex2ledger/flex"

// Group is a non-empty sequence of cash transactions sharing the same
// instrument (conid) and timestamp. Brokers report the legs of one
// economic event, such as a dividend and its withholding tax, as separate
// records carrying the same key.
type Group struct {
	Conid    string
	DateTime string
	Records  []flex.CashTransaction
}

// GroupCashTransactions partitions records by (conid, dateTime). Groups
// are returned in first-seen order and member order within each group is
// preserved; every input record lands in exactly one group.
func GroupCashTransactions(records []flex.CashTransaction) []Group {
	index := make(map[[2]string]int, len(records))
	groups := make([]Group, 0, len(records))

	for _, record := range records {
		key := [2]string{record.Conid, record.DateTime}
		if i, ok := index[key]; ok {
			groups[i].Records = append(groups[i].Records, record)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{
			Conid:    record.Conid,
			DateTime: record.DateTime,
			Records:  []flex.CashTransaction{record},
		})
	}

	return groups
}
