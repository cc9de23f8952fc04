package store

import (
	"context"
	"fmt"
	"time"

	"gasdelivery/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "phone", "role",
	"address", "latitude", "longitude", "is_active", "created_at", "updated_at",
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	q := s.qb.Select(userColumns...).From("users").OrderBy("created_at", "email")
	if err := selectAll(ctx, s.db, &users, q); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	q := s.qb.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id})
	if err := get(ctx, s.db, &u, q); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	q := s.qb.Select(userColumns...).From("users").Where(squirrel.Eq{"email": email})
	if err := get(ctx, s.db, &u, q); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// CreateUser inserts u, filling in its id and timestamps. The password must
// already be hashed.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := s.qb.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role,
			u.Address, u.Latitude, u.Longitude, u.IsActive, now, now).
		Suffix("RETURNING created_at, updated_at")

	if err := get(ctx, s.db, u, q); err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) usersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	q := s.qb.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids})
	if err := selectAll(ctx, s.db, &users, q); err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
