package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/qinghao1/gojek/internal/core/domain"
)

// DBTX is the subset of *pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type LocationStore struct {
	db DBTX
}

func NewLocationStore(db DBTX) *LocationStore {
	return &LocationStore{db: db}
}

func (s *LocationStore) ExecTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// Migrate creates the driver_locations table when it does not exist yet.
func (s *LocationStore) Migrate(ctx context.Context) error {
	return s.ExecTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

func (s *LocationStore) Get(ctx context.Context, id int) (domain.DriverLocation, error) {
	var loc domain.DriverLocation
	err := s.db.QueryRow(ctx, getLocation, id).Scan(
		&loc.ID,
		&loc.Point.Longitude,
		&loc.Point.Latitude,
		&loc.Accuracy,
		&loc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}
	if err != nil {
		return domain.DriverLocation{}, fmt.Errorf("get driver %d: %w", id, err)
	}
	loc.UpdatedAt = loc.UpdatedAt.UTC()
	return loc, nil
}

func (s *LocationStore) Upsert(ctx context.Context, loc domain.DriverLocation) error {
	_, err := s.db.Exec(ctx, upsertLocation,
		loc.ID,
		loc.Point.Longitude,
		loc.Point.Latitude,
		loc.Accuracy,
		loc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert driver %d: %w", loc.ID, err)
	}
	return nil
}

func (s *LocationStore) All(ctx context.Context) ([]domain.DriverLocation, error) {
	rows, err := s.db.Query(ctx, listLocations)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DriverLocation, error) {
		var loc domain.DriverLocation
		err := row.Scan(&loc.ID, &loc.Point.Longitude, &loc.Point.Latitude, &loc.Accuracy, &loc.UpdatedAt)
		loc.UpdatedAt = loc.UpdatedAt.UTC()
		return loc, err
	})
}
