package money

import (
	"bytes"
	"encoding/json"
)

// Amount is a dollar value decoded leniently from JSON. Strings such as
// "$1,200.50" and null are accepted; unreadable values decode as 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	v, err := decodeRaw(data)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(Normalize(v))
	return nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// Optional is an amount that may be absent. Absent and zero are different
// facts: a missing override is not an override of 0.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a provided amount.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// None is the not-provided / not-applicable value.
func None() Optional {
	return Optional{}
}

// Or returns the value when provided, otherwise fallback.
func (o Optional) Or(fallback float64) float64 {
	if o.Valid {
		return o.Value
	}
	return fallback
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	*o = Optional{}
	v, err := decodeRaw(data)
	if err != nil {
		return nil
	}
	f, err := Parse(v)
	if err != nil {
		return nil
	}
	*o = Some(f)
	return nil
}

func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
