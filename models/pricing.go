package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Column limits: NUMERIC(10,2) for money, NUMERIC(6,2) for weight.
var (
	MaxAmount   = decimal.New(9999999999, -2)
	MaxWeightKg = decimal.New(999999, -2)
)

// CheckAmount reports whether v fits a two-decimal column bounded by [0, limit].
func CheckAmount(field string, v, limit decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return fmt.Errorf("%s must be at least 0", field)
	case v.GreaterThan(limit):
		return fmt.Errorf("%s must be at most %s", field, limit.StringFixed(2))
	case !v.Round(2).Equal(v):
		return fmt.Errorf("%s must have at most 2 decimal places", field)
	}
	return nil
}

// NewOrderItem snapshots the cylinder's current price into a line item.
func NewOrderItem(cylinder GasCylinder, quantity int) OrderItem {
	c := cylinder
	return OrderItem{
		GasCylinderID: cylinder.ID,
		Quantity:      quantity,
		UnitPrice:     cylinder.Price,
		TotalPrice:    cylinder.Price.Mul(decimal.NewFromInt(int64(quantity))),
		GasCylinder:   &c,
	}
}

// OrderTotal sums the line totals and adds the delivery fee.
func OrderTotal(items []OrderItem, deliveryFee decimal.Decimal) decimal.Decimal {
	total := deliveryFee
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}
