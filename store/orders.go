package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gasdelivery/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	orderColumns = []string{
		"id", "order_number", "customer_id", "driver_id", "status", "total_amount", "delivery_fee",
		"delivery_address", "delivery_latitude", "delivery_longitude", "special_instructions",
		"actual_delivery_time", "created_at", "updated_at",
	}
	orderItemColumns = []string{
		"id", "order_id", "line_no", "gas_cylinder_id", "quantity", "unit_price", "total_price",
	}
)

// CreateOrder writes the order, its items and the matching stock decrements
// in one transaction. Each decrement only applies while enough stock remains;
// otherwise the whole order is rolled back with an *InsufficientStockError.
// On success o carries its generated order number, status and timestamps.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		q := s.qb.Insert("orders").
			Columns("id", "customer_id", "driver_id", "status", "total_amount", "delivery_fee",
				"delivery_address", "delivery_latitude", "delivery_longitude", "special_instructions",
				"created_at", "updated_at").
			Values(o.ID, o.CustomerID, o.DriverID, o.Status, o.TotalAmount, o.DeliveryFee,
				o.DeliveryAddress, o.DeliveryLatitude, o.DeliveryLongitude, o.SpecialInstructions,
				now, now).
			Suffix("RETURNING order_number, created_at, updated_at")
		if err := get(ctx, tx, o, q); err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return ErrBadReference
			}
			return fmt.Errorf("inserting order: %w", err)
		}

		for i := range o.Items {
			item := &o.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.OrderID = o.ID
			item.LineNo = i + 1

			ins := s.qb.Insert("order_items").
				Columns(orderItemColumns...).
				Values(item.ID, item.OrderID, item.LineNo, item.GasCylinderID, item.Quantity,
					item.UnitPrice, item.TotalPrice)
			if _, err := exec(ctx, tx, ins); err != nil {
				if pqCode(err) == pqForeignKeyViolation {
					return ErrBadReference
				}
				return fmt.Errorf("inserting order item %d: %w", item.LineNo, err)
			}

			if err := s.takeStock(ctx, tx, *item); err != nil {
				return err
			}
		}
		return nil
	})
}

// decrementStock only matches the row while it still holds at least qty units.
func (s *Store) decrementStock(id uuid.UUID, qty int) squirrel.UpdateBuilder {
	return s.qb.Update("gas_cylinders").
		Set("stock_quantity", squirrel.Expr("stock_quantity - ?", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"stock_quantity": qty})
}

func (s *Store) takeStock(ctx context.Context, tx *sqlx.Tx, item models.OrderItem) error {
	n, err := exec(ctx, tx, s.decrementStock(item.GasCylinderID, item.Quantity))
	if err != nil {
		return fmt.Errorf("decrementing stock of %s: %w", item.GasCylinderID, err)
	}
	if n == 0 {
		name := item.GasCylinderID.String()
		if item.GasCylinder != nil && item.GasCylinder.Name != "" {
			name = item.GasCylinder.Name
		}
		return &InsufficientStockError{CylinderID: item.GasCylinderID, Name: name}
	}
	return nil
}

// GetOrder loads one order with customer, driver, items and item cylinders.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var o models.Order
	q := s.qb.Select(orderColumns...).From("orders").Where(squirrel.Eq{"id": id})
	if err := get(ctx, s.db, &o, q); err != nil {
		return models.Order{}, err
	}
	orders := []models.Order{o}
	if err := s.loadOrderRelations(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

// ListOrders returns every order, newest first, with relations loaded.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	q := s.qb.Select(orderColumns...).From("orders").OrderBy("created_at DESC", "order_seq DESC")
	if err := selectAll(ctx, s.db, &orders, q); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if err := s.loadOrderRelations(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) loadOrderRelations(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	userIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		userIDs = append(userIDs, o.CustomerID)
		if o.DriverID != nil {
			userIDs = append(userIDs, *o.DriverID)
		}
	}

	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return err
	}

	var items []models.OrderItem
	q := s.qb.Select(orderItemColumns...).From("order_items").
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "line_no")
	if err := selectAll(ctx, s.db, &items, q); err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}

	cylinderIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		cylinderIDs = append(cylinderIDs, it.GasCylinderID)
	}
	cylinders, err := s.cylindersByID(ctx, cylinderIDs)
	if err != nil {
		return err
	}

	itemsByOrder := make(map[uuid.UUID][]models.OrderItem, len(orders))
	for _, it := range items {
		if c, ok := cylinders[it.GasCylinderID]; ok {
			it.GasCylinder = &c
		}
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	for i := range orders {
		o := &orders[i]
		if u, ok := users[o.CustomerID]; ok {
			o.Customer = &u
		}
		if o.DriverID != nil {
			if u, ok := users[*o.DriverID]; ok {
				o.Driver = &u
			}
		}
		o.Items = itemsByOrder[o.ID]
		if o.Items == nil {
			o.Items = []models.OrderItem{}
		}
	}
	return nil
}

// UpdateOrderStatus applies change only while the order still has
// change.From as its status, returning ErrStatusConflict otherwise.
func (s *Store) UpdateOrderStatus(ctx context.Context, change models.StatusChange) error {
	q := s.qb.Update("orders").
		Set("status", change.To).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": change.OrderID, "status": change.From})
	if change.DriverID != nil {
		q = q.Set("driver_id", *change.DriverID)
	}
	if change.ActualDeliveryTime != nil {
		q = q.Set("actual_delivery_time", *change.ActualDeliveryTime)
	}

	n, err := exec(ctx, s.db, q)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrBadReference
		}
		return fmt.Errorf("updating order status: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Distinguish a vanished order from a lost race on the status.
	var exists bool
	if err := s.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", change.OrderID); err != nil {
		return fmt.Errorf("checking order %s: %w", change.OrderID, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}

// IsInsufficientStock reports whether err was caused by a stock shortfall.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
