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

var supplierColumns = []string{
	"id", "name", "contact_person", "email", "phone", "address", "is_active", "created_at", "updated_at",
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	q := s.qb.Select(supplierColumns...).From("suppliers").OrderBy("name", "id")
	if err := selectAll(ctx, s.db, &suppliers, q); err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *Store) GetSupplier(ctx context.Context, id uuid.UUID) (models.Supplier, error) {
	var sup models.Supplier
	q := s.qb.Select(supplierColumns...).From("suppliers").Where(squirrel.Eq{"id": id})
	if err := get(ctx, s.db, &sup, q); err != nil {
		return models.Supplier{}, err
	}
	return sup, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	if sup.ID == uuid.Nil {
		sup.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := s.qb.Insert("suppliers").
		Columns(supplierColumns...).
		Values(sup.ID, sup.Name, sup.ContactPerson, sup.Email, sup.Phone, sup.Address, sup.IsActive, now, now).
		Suffix("RETURNING created_at, updated_at")
	if err := get(ctx, s.db, sup, q); err != nil {
		return fmt.Errorf("inserting supplier: %w", err)
	}
	return nil
}

// UpdateSupplier writes only the fields set in upd and returns the stored row.
func (s *Store) UpdateSupplier(ctx context.Context, id uuid.UUID, upd models.SupplierUpdate) (models.Supplier, error) {
	set := map[string]interface{}{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ContactPerson != nil {
		set["contact_person"] = *upd.ContactPerson
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	var sup models.Supplier
	q := s.qb.Update("suppliers").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(supplierColumns, ", "))
	if err := get(ctx, s.db, &sup, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Supplier{}, err
		}
		return models.Supplier{}, fmt.Errorf("updating supplier: %w", err)
	}
	return sup, nil
}
