package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups spending for the breakdown chart.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategorySubscriptions Category = "Subscriptions"
	CategoryOther         Category = "Other"
)

// Categories lists every category in enumeration order.
var Categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryShopping,
	CategorySubscriptions,
	CategoryOther,
}

// Rank is the category's position in enumeration order, or len(Categories)
// for an unknown value.
func (c Category) Rank() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}

	return len(Categories)
}

func (c Category) Valid() bool {
	return c.Rank() < len(Categories)
}

// ParseCategory matches a category name case-insensitively. Empty input maps
// to CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther, nil
	}

	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}

	return "", ErrInvalidCategory
}

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidAmount   = errors.New("transaction amount must be a positive finite number")
	ErrInvalidCategory = errors.New("unknown transaction category")
)

// Transaction is a single purchase made by a user.
type Transaction struct {
	ID          uuid.UUID
	UserEmail   string
	Amount      decimal.Decimal
	Category    Category
	Description string
	Date        time.Time
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

