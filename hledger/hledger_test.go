package hledger

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/flex2ledger/ledger"
)

func TestLatestDateFromCSV(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   ledger.Date
	}{
		{
			name: "last row wins",
			output: `"txnidx","date","code","description","otheraccounts","change","balance"
"1","2023-06-15","","NASDAQ","Assets:Broker:Cash","10 ACME","10 ACME"
"2","2023-06-20","","ACME","Income:Dividends","8.50 USD","..."
`,
			want: ledger.NewDate(2023, time.June, 20),
		},
		{
			name:   "header only",
			output: `"txnidx","date","code","description"` + "\n",
			want:   ledger.Date{},
		},
		{
			name:   "empty output",
			output: "",
			want:   ledger.Date{},
		},
		{
			name: "no date column",
			output: `"txnidx","description"
"1","NASDAQ"
`,
			want: ledger.Date{},
		},
		{
			name: "unparseable date",
			output: `"txnidx","date"
"1","15/06/2023"
`,
			want: ledger.Date{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, latestDateFromCSV([]byte(tt.output)))
		})
	}
}

func TestLatestTransactionDateMissingExecutable(t *testing.T) {
	source := &Source{Command: filepath.Join(t.TempDir(), "hledger-does-not-exist")}

	got := source.LatestTransactionDate(context.Background(), "Assets:Broker:Stocks")
	assert.Equal(t, ledger.Date{}, got)
}

func TestLatestTransactionDateFromScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a shell script stand-in for hledger")
	}

	script := filepath.Join(t.TempDir(), "hledger")
	contents := `#!/bin/sh
printf '%s\n' '"txnidx","date"' '"1","2023-06-15"' '"2","2023-06-20"'
`
	assert.NoError(t, os.WriteFile(script, []byte(contents), 0o755))

	source := &Source{Command: script}

	got := source.LatestTransactionDate(context.Background(), "Assets:Broker:Stocks")
	assert.Equal(t, ledger.NewDate(2023, time.June, 20), got)
}
