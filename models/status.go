package models

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusAssigned  OrderStatus = "assigned"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Next lists the statuses reachable from s in one step.
func (s OrderStatus) Next() []OrderStatus {
	return slices.Clone(transitions[s])
}

type TransitionError struct {
	From, To OrderStatus
}

func (e *TransitionError) Error() string {
	next := e.From.Next()
	if len(next) == 0 {
		return fmt.Sprintf("Cannot change status from %s to %s: %s is final", e.From, e.To, e.From)
	}
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("Cannot change status from %s to %s: allowed are %s",
		e.From, e.To, strings.Join(allowed, ", "))
}

// CheckTransition validates moving an order from one status to another.
// Staying on the same non-terminal status is accepted so a driver can be
// reassigned without advancing the order.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown order status %q", to)
	}
	if from == to && !from.Terminal() {
		return nil
	}
	if !slices.Contains(transitions[from], to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
