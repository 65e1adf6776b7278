package fundpush

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// amounts are printed like "25,000.00": two fraction digits, comma thousands, no symbol.
var amountFormatter = money.NewFormatter(2, ".", ",", "", "1")

// Money represents a monetary value in the ledger's currency (yuan).
type Money struct {
	value decimal.Decimal // as major unit value
}

// M creates Money from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses an amount like "100000.00".
func ParseMoney(s string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: v}, nil
}

func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money               { return Money{value: m.value.Neg()} }
func (m Money) Decimal() decimal.Decimal { return m.value }

// String returns the amount with thousands separators and two decimals, e.g. "125,000.00".
func (m Money) String() string {
	return amountFormatter.Format(m.value.Round(2).Shift(2).IntPart())
}

// SignedString returns the amount with an explicit sign, e.g. "+25,000.00" or "-3.10".
// Zero is rendered as "+0.00".
func (m Money) SignedString() string {
	if m.value.Round(2).IsNegative() {
		return m.String()
	}
	return "+" + m.String()
}

// TenThousands renders the amount in units of ten thousand with two decimals, e.g. "10.00".
func (m Money) TenThousands() string {
	return m.value.Div(decimal.NewFromInt(10000)).StringFixed(2)
}
