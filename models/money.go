package models

import (
	"math"
	"strconv"
)

// Cents is an amount of money in minor units.
type Cents int64

func ToCents(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

func (c Cents) Float64() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	frac := strconv.FormatInt(v%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + frac
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// LineTotal is price × quantity, rounded to cents before multiplying.
func LineTotal(price float64, quantity int) Cents {
	return ToCents(price) * Cents(quantity)
}
