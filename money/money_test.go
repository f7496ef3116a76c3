package money

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	var nilFloat *float64
	five := 5.5

	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"currency string", "$25,000", 25000},
		{"decimal string", "1,234.56", 1234.56},
		{"padded string", "  $ 300 ", 300},
		{"accounting negative", "(1,500)", -1500},
		{"negative", "-$42", -42},
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"only symbols", "$,", 0},
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"nil pointer", nilFloat, 0},
		{"pointer", &five, 5.5},
		{"json number", json.Number("1000"), 1000},
		{"NaN", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"unsupported", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if math.IsNaN(got) {
				t.Errorf("Normalize(%v) returned NaN", tt.in)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for nil, got %v", err)
	}
	if _, err := Parse("   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for blank string, got %v", err)
	}
	if _, err := Parse("12abc"); !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable, got %v", err)
	}
	if _, err := Parse(struct{}{}); !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable for struct, got %v", err)
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	body := `{"a": "$25,000", "b": 1500.25, "c": null, "d": "n/a"}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.A != 25000 {
		t.Errorf("a = %v, want 25000", payload.A)
	}
	if payload.B != 1500.25 {
		t.Errorf("b = %v, want 1500.25", payload.B)
	}
	if payload.C != 0 || payload.D != 0 {
		t.Errorf("expected zero for null and garbage, got %v and %v", payload.C, payload.D)
	}
}

func TestOptional(t *testing.T) {
	var payload struct {
		Set     Optional `json:"set"`
		Zero    Optional `json:"zero"`
		Null    Optional `json:"null"`
		Blank   Optional `json:"blank"`
		Missing Optional `json:"missing"`
	}
	body := `{"set": "$90,000", "zero": 0, "null": null, "blank": ""}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payload.Set.Valid || payload.Set.Value != 90000 {
		t.Errorf("set = %+v", payload.Set)
	}
	if !payload.Zero.Valid || payload.Zero.Value != 0 {
		t.Errorf("explicit zero must be provided, got %+v", payload.Zero)
	}
	for name, o := range map[string]Optional{"null": payload.Null, "blank": payload.Blank, "missing": payload.Missing} {
		if o.Valid {
			t.Errorf("%s should not be provided", name)
		}
	}

	out, err := json.Marshal(struct {
		A Optional `json:"a"`
		B Optional `json:"b"`
	}{A: Some(0.5), B: None()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":0.5,"b":null}` {
		t.Errorf("unexpected encoding %s", out)
	}

	if None().Or(3) != 3 || Some(1).Or(3) != 1 {
		t.Error("Or fallback mismatch")
	}
}

func TestRounding(t *testing.T) {
	if RoundWhole(1186.99) != 1187 {
		t.Errorf("RoundWhole mismatch")
	}
	if RoundCents(1.234) != 1.23 {
		t.Errorf("RoundCents mismatch: %v", RoundCents(1.234))
	}
}
