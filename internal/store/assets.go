package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"asset-tracking-api/internal/models"
)

// ErrNotFound is returned when no asset has the requested id
var ErrNotFound = errors.New("not found")

const assetColumns = "id, name, model, condition, last_activity, status, location"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (models.Asset, error) {
	var a models.Asset
	err := row.Scan(&a.ID, &a.Name, &a.Model, &a.Condition, &a.LastActivity, &a.Status, &a.Location)
	return a, err
}

// CreateAsset inserts a new asset and returns its assigned id.
// Identical records are allowed.
func (s *Store) CreateAsset(ctx context.Context, in models.AssetInput) (int64, error) {
	var id int64
	err := s.querier(ctx).QueryRowContext(ctx, s.rebind(`
		INSERT INTO assets (name, model, condition, last_activity, status, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`),
		in.Name, in.Model, in.Condition, in.LastActivity, in.Status, in.Location).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return id, nil
}

// ListAssets returns every asset ordered by id
func (s *Store) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// GetAsset returns one asset or ErrNotFound
func (s *Store) GetAsset(ctx context.Context, id int64) (models.Asset, error) {
	row := s.querier(ctx).QueryRowContext(ctx, s.rebind(`SELECT `+assetColumns+` FROM assets WHERE id = $1`), id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, ErrNotFound
	}
	if err != nil {
		return models.Asset{}, fmt.Errorf("get asset %d: %w", id, err)
	}
	return a, nil
}

// UpdateAsset overwrites every field of the asset. Returns ErrNotFound when
// the id does not exist; no row is touched in that case.
func (s *Store) UpdateAsset(ctx context.Context, id int64, in models.AssetInput) error {
	res, err := s.querier(ctx).ExecContext(ctx, s.rebind(`
		UPDATE assets
		SET name = $1, model = $2, condition = $3, last_activity = $4, status = $5, location = $6
		WHERE id = $7`),
		in.Name, in.Model, in.Condition, in.LastActivity, in.Status, in.Location, id)
	if err != nil {
		return fmt.Errorf("update asset %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// DeleteAsset removes the asset or returns ErrNotFound
func (s *Store) DeleteAsset(ctx context.Context, id int64) error {
	res, err := s.querier(ctx).ExecContext(ctx, s.rebind(`DELETE FROM assets WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for asset %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
