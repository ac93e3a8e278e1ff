package finance

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// This file is the single coercion boundary for monetary arithmetic.
// Anything that does not parse as a finite number becomes zero here;
// callers never see an error and never divide by zero.

// ToDecimal coerces a number, string or nil to a decimal.
// Non-numeric or absent input yields zero.
func ToDecimal(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case Money:
		return v.Decimal
	case *Money:
		if v == nil {
			return decimal.Zero
		}
		return v.Decimal
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// SafeDivide returns numerator/denominator, or zero when the denominator is zero.
func SafeDivide(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}

// RoundToCents rounds to 2 decimal places, half up.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ToPercentage returns (part/whole)*100 rounded to 2 decimal places,
// zero when whole is zero.
func ToPercentage(part, whole decimal.Decimal) decimal.Decimal {
	return RoundToCents(SafeDivide(part.Mul(oneHundred), whole))
}

// SumValues adds up a mixed sequence of numeric-like values,
// coercing each entry through ToDecimal.
func SumValues(values ...interface{}) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(ToDecimal(v))
	}
	return total
}

var oneHundred = decimal.NewFromInt(100)

// Money is a decimal amount that serializes with exactly two fractional
// digits, e.g. "157.50". All currency values cross the API boundary as Money.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{RoundToCents(d)}
}

func moneyPtr(d decimal.Decimal) *Money {
	m := NewMoney(d)
	return &m
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	m.Decimal = ToDecimal(s)
	return nil
}
