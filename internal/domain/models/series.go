package models

import (
	"encoding/json"
	"strconv"
)

// Value is a single point of an indicator series. A freshly constructed
// Value is undefined; indicators report undefined points during their
// warm-up window instead of inventing numbers.
type Value struct {
	Float64 float64
	Valid   bool
}

// Val wraps a defined value.
func Val(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// MarshalJSON encodes an undefined point as null so gaps survive the
// trip through the API unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float64, 'f', -1, 64), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Val(f)
	return nil
}

// Series is an indicator output aligned index-for-index with its input bars.
type Series []Value

// At returns the point at i and whether it is defined. Out-of-range
// indices are simply undefined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return s[i].Float64, s[i].Valid
}

// Last returns the final defined point of the series.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i].Float64, true
		}
	}
	return 0, false
}

// Signal is a trading recommendation derived from indicator state.
type Signal int8

const (
	SignalHold Signal = 0
	SignalBuy  Signal = 1
	SignalSell Signal = -1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Signal) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "BUY":
		*s = SignalBuy
	case "SELL":
		*s = SignalSell
	default:
		*s = SignalHold
	}
	return nil
}
