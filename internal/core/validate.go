// Package core holds the domain model and the validation rules every
// mutation must pass before anything is persisted.
//
// All validators are pure functions. Amounts are whole yen, categories
// come from a fixed set, dates are calendar days in YYYY-MM-DD form.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount bounds in whole yen.
const (
	MinAmount int64 = 0
	MaxAmount int64 = 10_000_000
)

// Category is one of the fixed expense categories.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryEntertainment Category = "entertainment"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryEntertainment,
		CategoryTransport,
		CategoryShopping,
		CategoryHealth,
		CategoryOther,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryEntertainment, CategoryTransport,
		CategoryShopping, CategoryHealth, CategoryOther:
		return true
	default:
		return false
	}
}

// ValidateAmount checks an already-numeric amount against the bounds.
func ValidateAmount(v int64) (int64, error) {
	if v < MinAmount {
		return 0, ErrInvalidAmount
	}
	if v > MaxAmount {
		return 0, ErrAmountTooLarge
	}
	return v, nil
}

// ParseAmount parses user input into a whole-yen amount. Decimal input
// is floored. Returns ErrInvalidAmount for non-numeric or negative
// input and ErrAmountTooLarge above MaxAmount.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ValidateAmount(v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidAmount
	}
	return ValidateAmount(int64(math.Floor(f)))
}

// ValidateCategory checks membership in the fixed category set.
func ValidateCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form
// and returns it in canonical form.
func ValidateDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}
