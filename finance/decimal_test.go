package finance

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToDecimalCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "0"},
		{"int", 42, "42"},
		{"float", 19.99, "19.99"},
		{"string", "123.45", "123.45"},
		{"padded string", "  7.5 ", "7.5"},
		{"garbage string", "abc", "0"},
		{"empty string", "", "0"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
		{"bool", true, "0"},
		{"nil decimal ptr", (*decimal.Decimal)(nil), "0"},
	}
	for _, tc := range cases {
		got := ToDecimal(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s: ToDecimal(%v) = %s, want %s", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(decimal.NewFromInt(10), decimal.Zero); !got.IsZero() {
		t.Errorf("divide by zero = %s, want 0", got)
	}
	got := SafeDivide(decimal.NewFromInt(10), decimal.NewFromInt(4))
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("10/4 = %s, want 2.5", got)
	}
}

func TestRoundToCentsHalfUp(t *testing.T) {
	cases := map[string]string{
		"1.005":   "1.01",
		"1.004":   "1.00",
		"2.675":   "2.68",
		"0":       "0.00",
		"157.5":   "157.50",
		"999.999": "1000.00",
	}
	for in, want := range cases {
		got := RoundToCents(decimal.RequireFromString(in)).StringFixed(2)
		if got != want {
			t.Errorf("RoundToCents(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestToPercentage(t *testing.T) {
	got := ToPercentage(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if !got.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("1/3 as percentage = %s, want 33.33", got)
	}
	if got := ToPercentage(decimal.NewFromInt(50), decimal.Zero); !got.IsZero() {
		t.Errorf("percentage with zero whole = %s, want 0", got)
	}
}

func TestSumValuesTreatsBadEntriesAsZero(t *testing.T) {
	got := SumValues(1, "2.5", nil, "junk", decimal.NewFromFloat(0.5))
	if !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("SumValues = %s, want 4", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("157.5"))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal money: %v", err)
	}
	if string(b) != `"157.50"` {
		t.Errorf("money serialized as %s, want \"157.50\"", b)
	}

	var back Money
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal money: %v", err)
	}
	if !back.Equal(m.Decimal) {
		t.Errorf("round trip = %s, want %s", back, m)
	}
}
