package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gasdelivery/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var cylinderColumns = []string{
	"id", "name", "description", "weight_kg", "price", "stock_quantity",
	"supplier_id", "is_active", "created_at", "updated_at",
}

func (s *Store) ListCylinders(ctx context.Context) ([]models.GasCylinder, error) {
	cylinders := []models.GasCylinder{}
	q := s.qb.Select(cylinderColumns...).From("gas_cylinders").OrderBy("name", "id")
	if err := selectAll(ctx, s.db, &cylinders, q); err != nil {
		return nil, fmt.Errorf("listing gas cylinders: %w", err)
	}
	return cylinders, nil
}

// GetCylinder loads one cylinder together with its supplier.
func (s *Store) GetCylinder(ctx context.Context, id uuid.UUID) (models.GasCylinder, error) {
	var c models.GasCylinder
	q := s.qb.Select(cylinderColumns...).From("gas_cylinders").Where(squirrel.Eq{"id": id})
	if err := get(ctx, s.db, &c, q); err != nil {
		return models.GasCylinder{}, err
	}

	sup, err := s.GetSupplier(ctx, c.SupplierID)
	switch {
	case err == nil:
		c.Supplier = &sup
	case !errors.Is(err, ErrNotFound):
		return models.GasCylinder{}, fmt.Errorf("loading supplier of cylinder %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) CreateCylinder(ctx context.Context, c *models.GasCylinder) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := s.qb.Insert("gas_cylinders").
		Columns(cylinderColumns...).
		Values(c.ID, c.Name, c.Description, c.WeightKg, c.Price, c.StockQuantity,
			c.SupplierID, c.IsActive, now, now).
		Suffix("RETURNING created_at, updated_at")
	if err := get(ctx, s.db, c, q); err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrBadReference
		}
		return fmt.Errorf("inserting gas cylinder: %w", err)
	}
	return nil
}

// UpdateCylinder writes only the fields set in upd and returns the stored
// row with its supplier. Stock is left alone unless upd.StockQuantity is set.
func (s *Store) UpdateCylinder(ctx context.Context, id uuid.UUID, upd models.CylinderUpdate) (models.GasCylinder, error) {
	var c models.GasCylinder
	if err := get(ctx, s.db, &c, s.cylinderUpdate(id, upd)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return models.GasCylinder{}, err
		case pqCode(err) == pqForeignKeyViolation:
			return models.GasCylinder{}, ErrBadReference
		}
		return models.GasCylinder{}, fmt.Errorf("updating gas cylinder: %w", err)
	}

	sup, err := s.GetSupplier(ctx, c.SupplierID)
	switch {
	case err == nil:
		c.Supplier = &sup
	case !errors.Is(err, ErrNotFound):
		return models.GasCylinder{}, fmt.Errorf("loading supplier of cylinder %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) cylinderUpdate(id uuid.UUID, upd models.CylinderUpdate) squirrel.UpdateBuilder {
	set := map[string]interface{}{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.WeightKg != nil {
		set["weight_kg"] = *upd.WeightKg
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.StockQuantity != nil {
		set["stock_quantity"] = *upd.StockQuantity
	}
	if upd.SupplierID != nil {
		set["supplier_id"] = *upd.SupplierID
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	return s.qb.Update("gas_cylinders").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(cylinderColumns, ", "))
}

func (s *Store) cylindersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.GasCylinder, error) {
	out := make(map[uuid.UUID]models.GasCylinder, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cylinders []models.GasCylinder
	q := s.qb.Select(cylinderColumns...).From("gas_cylinders").Where(squirrel.Eq{"id": ids})
	if err := selectAll(ctx, s.db, &cylinders, q); err != nil {
		return nil, fmt.Errorf("loading gas cylinders: %w", err)
	}
	for _, c := range cylinders {
		out[c.ID] = c
	}
	return out, nil
}
