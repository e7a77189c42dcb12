// Package hledger inspects an existing hledger journal to support
// incremental runs. It shells out to the hledger executable; any failure
// degrades to the zero date so the caller processes the full statement
// instead of aborting.
package hledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os/exec"

	"github.com/robinvdvleuten/flex2ledger/ledger"
)

const defaultCommand = "hledger"

// Source reads the latest transaction date for an account from the local
// hledger installation. It implements compile.TemporalSource.
type Source struct {
	// Command overrides the hledger executable, mainly for tests.
	Command string
}

// LatestTransactionDate returns the date of the most recent transaction
// registered against the account, using secondary dates to match the
// DATE=DATE2 headers this tool emits. The zero Date is returned when
// hledger is unavailable, the account has no transactions or the output
// cannot be parsed.
func (s *Source) LatestTransactionDate(ctx context.Context, account string) ledger.Date {
	command := s.Command
	if command == "" {
		command = defaultCommand
	}

	cmd := exec.CommandContext(ctx, command, "aregister", "-O", "csv", "--date2", account)
	output, err := cmd.Output()
	if err != nil {
		return ledger.Date{}
	}

	return latestDateFromCSV(output)
}

// latestDateFromCSV extracts the date of the last row of an hledger
// aregister CSV export.
func latestDateFromCSV(output []byte) ledger.Date {
	reader := csv.NewReader(bytes.NewReader(output))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ledger.Date{}
	}

	dateColumn := -1
	for i, name := range header {
		if name == "date" {
			dateColumn = i
			break
		}
	}
	if dateColumn < 0 {
		return ledger.Date{}
	}

	var last string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ledger.Date{}
		}
		if dateColumn < len(row) {
			last = row[dateColumn]
		}
	}
	if last == "" {
		return ledger.Date{}
	}

	date, err := ledger.ParseDate(last)
	if err != nil {
		return ledger.Date{}
	}
	return date
}
