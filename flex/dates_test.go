package flex

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/flex2ledger/ledger"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    ledger.Date
		wantErr bool
	}{
		{name: "iso", value: "2023-06-15", want: ledger.NewDate(2023, time.June, 15)},
		{name: "compact", value: "20230615", want: ledger.NewDate(2023, time.June, 15)},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "June 15th", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    ledger.Date
		wantErr bool
	}{
		{name: "iso with time", value: "2023-06-15 10:11:12", want: ledger.NewDate(2023, time.June, 15)},
		{name: "iso t separator", value: "2023-06-15T10:11:12", want: ledger.NewDate(2023, time.June, 15)},
		{name: "compact with time", value: "20230615;101112", want: ledger.NewDate(2023, time.June, 15)},
		{name: "date only", value: "2023-06-15", want: ledger.NewDate(2023, time.June, 15)},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
