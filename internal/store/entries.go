package store

import (
	"context"
	"fmt"

	"asset-tracking-api/internal/models"
)

// CreateEntry records an entry under its client-supplied id. A reused id is
// rejected by the unique constraint and returned as a storage error.
func (s *Store) CreateEntry(ctx context.Context, e models.Entry) error {
	_, err := s.querier(ctx).ExecContext(ctx, s.rebind(`
		INSERT INTO asset_entries (id, asset_id, timestamp, type, location, remarks, name, model, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`),
		e.ID, e.AssetID, e.Timestamp, e.Type, e.Location, e.Remarks, e.Name, e.Model, e.Condition)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	return nil
}

// ListEntries returns every entry in insertion order
func (s *Store) ListEntries(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT id, asset_id, timestamp, type, location, remarks, name, model, condition
		FROM asset_entries
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Timestamp, &e.Type, &e.Location, &e.Remarks, &e.Name, &e.Model, &e.Condition); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListAssetGroups groups entries by asset id. Groups appear in the order of
// their first entry; entries keep insertion order.
func (s *Store) ListAssetGroups(ctx context.Context) ([]models.AssetGroup, error) {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	return GroupEntries(entries), nil
}

// GroupEntries folds an ordered entry list into asset groups
func GroupEntries(entries []models.Entry) []models.AssetGroup {
	groups := []models.AssetGroup{}
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.AssetID]
		if !ok {
			i = len(groups)
			index[e.AssetID] = i
			groups = append(groups, models.AssetGroup{ID: e.AssetID, Entries: []models.Entry{}})
		}
		groups[i].Append(e)
	}
	return groups
}
