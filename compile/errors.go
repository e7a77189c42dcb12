package compile

import "fmt"

// MalformedSymbolError is returned for an FX trade whose symbol is not a
// BASE.QUOTE currency pair.
type MalformedSymbolError struct {
	TradeID string
	Symbol  string
}

func (e *MalformedSymbolError) Error() string {
	return fmt.Sprintf("trade %s: malformed FX symbol %q, expected BASE.QUOTE", e.TradeID, e.Symbol)
}

// MalformedRecordError is returned when a record misses a required field or
// carries an unparseable value. It aborts emission for that record only.
type MalformedRecordError struct {
	Record string
	Field  string
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: missing required field %s", e.Record, e.Field)
	}
	return fmt.Sprintf("%s: invalid %s %q", e.Record, e.Field, e.Value)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
