package compile

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/flex2ledger/flex"
)

func cashTxn(conid, dateTime, typ, amount string) flex.CashTransaction {
	return flex.CashTransaction{
		Conid:      conid,
		DateTime:   dateTime,
		Type:       typ,
		ReportDate: "2023-06-20",
		Currency:   "USD",
		Amount:     amount,
		Symbol:     "ACME",
	}
}

func TestGroupCashTransactionsPartition(t *testing.T) {
	records := []flex.CashTransaction{
		cashTxn("1", "2023-06-20 20:20:00", flex.TypeDividends, "-10"),
		cashTxn("2", "2023-06-20 20:20:00", flex.TypeOtherFees, "-5"),
		cashTxn("1", "2023-06-20 20:20:00", flex.TypeWithholdingTax, "-1.5"),
		cashTxn("1", "2023-06-21 20:20:00", flex.TypeDividends, "-20"),
	}

	groups := GroupCashTransactions(records)

	// Three distinct (conid, dateTime) keys, first-seen order.
	assert.Equal(t, 3, len(groups))
	assert.Equal(t, "1", groups[0].Conid)
	assert.Equal(t, "2023-06-20 20:20:00", groups[0].DateTime)
	assert.Equal(t, "2", groups[1].Conid)
	assert.Equal(t, "1", groups[2].Conid)
	assert.Equal(t, "2023-06-21 20:20:00", groups[2].DateTime)

	// Every record lands in exactly one group with member order preserved.
	total := 0
	for _, group := range groups {
		total += len(group.Records)
		for _, record := range group.Records {
			assert.Equal(t, group.Conid, record.Conid)
			assert.Equal(t, group.DateTime, record.DateTime)
		}
	}
	assert.Equal(t, len(records), total)

	assert.Equal(t, flex.TypeDividends, groups[0].Records[0].Type)
	assert.Equal(t, flex.TypeWithholdingTax, groups[0].Records[1].Type)
}

func TestGroupCashTransactionsEmpty(t *testing.T) {
	assert.Equal(t, 0, len(GroupCashTransactions(nil)))
}

func TestGroupCashTransactionsSingleRecord(t *testing.T) {
	groups := GroupCashTransactions([]flex.CashTransaction{
		cashTxn("1", "2023-06-20 20:20:00", flex.TypeDividends, "-10"),
	})

	assert.Equal(t, 1, len(groups))
	assert.Equal(t, 1, len(groups[0].Records))
}
