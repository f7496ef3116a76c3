// Package money turns user-entered amounts into numbers.
//
// Form fields reach the service as "$25,000", 25000, "" or null. Normalize
// accepts all of them and never fails: anything it cannot read becomes 0.
// Callers that need to reject bad input use Parse instead.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty       = errors.New("empty amount")
	ErrUnparseable = errors.New("unparseable amount")
)

// Parse reads v as a decimal amount. Nil values, nil pointers and blank
// strings return ErrEmpty.
func Parse(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, ErrEmpty
	case string:
		return parseString(x)
	case *string:
		if x == nil {
			return 0, ErrEmpty
		}
		return parseString(*x)
	case float64:
		return finite(x)
	case *float64:
		if x == nil {
			return 0, ErrEmpty
		}
		return finite(*x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return parseString(x.String())
	case decimal.Decimal:
		return x.InexactFloat64(), nil
	case Amount:
		return float64(x), nil
	case Optional:
		if !x.Valid {
			return 0, ErrEmpty
		}
		return x.Value, nil
	}
	return 0, fmt.Errorf("%w: unsupported type %T", ErrUnparseable, v)
}

// Normalize is Parse with every failure mapped to 0.
func Normalize(v any) float64 {
	f, err := Parse(v)
	if err != nil {
		return 0
	}
	return f
}

func parseString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, ErrEmpty
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	if negative {
		d = d.Neg()
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrUnparseable, f)
	}
	return f, nil
}

// RoundWhole rounds to the nearest whole currency unit. Presentation only.
func RoundWhole(f float64) float64 {
	return math.Round(f)
}

// RoundCents rounds to two decimals.
func RoundCents(f float64) float64 {
	return math.Round(f*100) / 100
}
