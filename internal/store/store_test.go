package store_test

import (
	"context"
	"errors"
	"testing"

	"asset-tracking-api/internal/models"
	"asset-tracking-api/internal/store"
	"asset-tracking-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

func laptop() models.AssetInput {
	return models.AssetInput{Name: "Laptop", Model: "X1", Condition: "Good", Status: "In Use", Location: "HQ"}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver  string
		want    store.Dialect
		wantErr bool
	}{
		{"pgx", store.DialectPostgres, false},
		{"postgres", store.DialectPostgres, false},
		{"sqlite", store.DialectSQLite, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := store.DialectFor(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := testutil.NewSQLiteStore(t)

	applied, err := st.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied, "second run must not reapply anything")
}

func TestAssetLifecycle(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	id, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)
	assert.Positive(t, id)

	assets, err := st.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, laptop().ToAsset(id), assets[0])
	assert.Nil(t, assets[0].LastActivity)

	retired := laptop()
	retired.Status = "Retired"
	seen := "2024-03-01T09:30:00Z"
	retired.LastActivity = &seen
	require.NoError(t, st.UpdateAsset(ctx, id, retired))

	got, err := st.GetAsset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Retired", got.Status)
	assert.Equal(t, "Laptop", got.Name)
	require.NotNil(t, got.LastActivity)
	assert.Equal(t, seen, *got.LastActivity)

	require.NoError(t, st.DeleteAsset(ctx, id))

	assets, err = st.ListAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestCreateAllowsDuplicatesWithFreshIDs(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	const n = 5
	seen := make(map[int64]bool)
	for i := 0; i < n; i++ {
		id, err := st.CreateAsset(ctx, laptop())
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}

	assets, err := st.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, n)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)
	require.NoError(t, st.DeleteAsset(ctx, first))

	second, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestUpdateLeavesOtherRecordsUnchanged(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	keep, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)
	target, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)

	phone := models.AssetInput{Name: "Phone", Model: "P7", Condition: "Fair", Status: "Spare", Location: "Branch"}
	require.NoError(t, st.UpdateAsset(ctx, target, phone))

	got, err := st.GetAsset(ctx, keep)
	require.NoError(t, err)
	assert.Equal(t, laptop().ToAsset(keep), got)

	got, err = st.GetAsset(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, phone.ToAsset(target), got)
}

func TestDeleteLeavesOtherRecordsUnchanged(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	seen := "2024-03-01"
	inputs := []models.AssetInput{
		laptop(),
		{Name: "Monitor", Model: "U27", Condition: "Fair", Status: "In Stock", Location: "Lab", LastActivity: &seen},
		{Name: "Phone", Model: "P8", Condition: "New", Status: "In Use", Location: "Branch"},
	}
	var want []models.Asset
	for _, in := range inputs {
		id, err := st.CreateAsset(ctx, in)
		require.NoError(t, err)
		want = append(want, in.ToAsset(id))
	}

	require.NoError(t, st.DeleteAsset(ctx, want[1].ID))

	got, err := st.ListAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Asset{want[0], want[2]}, got)

	_, err = st.GetAsset(ctx, want[1].ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestMissingIDReportsNotFound(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	id, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)

	missing := id + 100
	assert.True(t, errors.Is(st.UpdateAsset(ctx, missing, laptop()), store.ErrNotFound))
	assert.True(t, errors.Is(st.DeleteAsset(ctx, missing), store.ErrNotFound))
	_, err = st.GetAsset(ctx, missing)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	assets, err := st.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, laptop().ToAsset(id), assets[0])
}

func TestRequestConnectionIsUsed(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	conn, reqCtx, err := store.Acquire(ctx, st.DB())
	require.NoError(t, err)

	got, ok := store.ConnFromContext(reqCtx)
	require.True(t, ok)
	assert.Same(t, conn, got)

	_, err = st.CreateAsset(reqCtx, laptop())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// a released connection cannot be reused by the request context
	_, err = st.CreateAsset(reqCtx, laptop())
	assert.Error(t, err)

	assets, err := st.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

func TestEntriesGroupByAsset(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	name := "Laptop"
	entries := []models.Entry{
		{ID: "e1", AssetID: "A1", Timestamp: "2024-01-01T08:00:00Z", Type: models.EntryTypeEntry, Location: "office", Name: &name},
		{ID: "e2", AssetID: "B7", Timestamp: "2024-01-01T09:00:00Z", Type: models.EntryTypeEntry, Location: "office"},
		{ID: "e3", AssetID: "A1", Timestamp: "2024-01-01T10:00:00Z", Type: models.EntryTypeExit, Location: "client"},
	}
	for _, e := range entries {
		require.NoError(t, st.CreateEntry(ctx, e))
	}

	groups, err := st.ListAssetGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "A1", groups[0].ID)
	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "e1", groups[0].Entries[0].ID)
	assert.Equal(t, "e3", groups[0].Entries[1].ID)
	require.NotNil(t, groups[0].Name)
	assert.Equal(t, "Laptop", *groups[0].Name)
	assert.Nil(t, groups[0].Entries[0].Remarks)

	assert.Equal(t, "B7", groups[1].ID)
	assert.Len(t, groups[1].Entries, 1)
}

func TestDuplicateEntryIDIsRejected(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	e := models.Entry{ID: "e1", AssetID: "A1", Timestamp: "2024-01-01T08:00:00Z", Type: models.EntryTypeEntry, Location: "office"}
	require.NoError(t, st.CreateEntry(ctx, e))

	e.AssetID = "A2"
	err := st.CreateEntry(ctx, e)
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))

	groups, err := st.ListAssetGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "A1", groups[0].ID)
}

func TestEmptyStoreListsNothing(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	ctx := context.Background()

	assets, err := st.ListAssets(ctx)
	require.NoError(t, err)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)

	groups, err := st.ListAssetGroups(ctx)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestPostgresAssetLifecycle(t *testing.T) {
	testutil.RequireIntegration(t)

	st := testutil.NewPostgresStore(t)
	ctx := context.Background()

	id, err := st.CreateAsset(ctx, laptop())
	require.NoError(t, err)

	retired := laptop()
	retired.Status = "Retired"
	require.NoError(t, st.UpdateAsset(ctx, id, retired))
	assert.ErrorIs(t, st.UpdateAsset(ctx, id+1000, retired), store.ErrNotFound)

	got, err := st.GetAsset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Retired", got.Status)

	require.NoError(t, st.DeleteAsset(ctx, id))
	assert.ErrorIs(t, st.DeleteAsset(ctx, id), store.ErrNotFound)
}
