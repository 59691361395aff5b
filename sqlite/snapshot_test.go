package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func insightsPayload(t *testing.T, brandName string) []byte {
	t.Helper()

	payload, err := json.Marshal(&storelens.BrandInsights{BrandName: brandName})
	require.NoError(t, err)
	return payload
}

func TestSnapshotService_CreateSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("persists and fills generated fields", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		snap := &storelens.Snapshot{
			Key:       "https://ironpeak.com",
			Kind:      storelens.SnapshotInsights,
			BrandName: "Iron Peak",
			Payload:   insightsPayload(t, "Iron Peak"),
		}

		err := s.CreateSnapshot(context.Background(), snap)
		require.NoError(t, err)

		assert.NotEmpty(t, snap.ID)
		assert.NotEmpty(t, snap.ContentHash)
		assert.False(t, snap.CreatedAt.IsZero())

		found, err := s.FindSnapshotByKey(context.Background(), snap.Key, storelens.SnapshotInsights)
		require.NoError(t, err)
		assert.Equal(t, snap.ID, found.ID)
		assert.Equal(t, "Iron Peak", found.BrandName)
		assert.Equal(t, snap.Payload, found.Payload)
		assert.Equal(t, snap.ContentHash, found.ContentHash)
	})

	t.Run("is idempotent per key and kind", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		ctx := context.Background()

		first := &storelens.Snapshot{
			Key:     "https://ironpeak.com",
			Kind:    storelens.SnapshotInsights,
			Payload: insightsPayload(t, "Iron Peak"),
		}
		require.NoError(t, s.CreateSnapshot(ctx, first))

		second := &storelens.Snapshot{
			Key:     "https://ironpeak.com",
			Kind:    storelens.SnapshotInsights,
			Payload: insightsPayload(t, "Renamed Later"),
		}
		require.NoError(t, s.CreateSnapshot(ctx, second))

		// The stored row wins and is copied back to the caller.
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Payload, second.Payload)
		assert.Equal(t, first.ContentHash, second.ContentHash)

		snaps, err := s.FindSnapshots(ctx, storelens.SnapshotFilter{})
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
	})

	t.Run("stores insights and analysis separately under one key", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		ctx := context.Background()

		insights := &storelens.Snapshot{
			Key:     "https://ironpeak.com",
			Kind:    storelens.SnapshotInsights,
			Payload: insightsPayload(t, "Iron Peak"),
		}
		require.NoError(t, s.CreateSnapshot(ctx, insights))

		analysisPayload, err := json.Marshal(&storelens.CompetitorAnalysis{BrandURL: "https://ironpeak.com"})
		require.NoError(t, err)
		analysis := &storelens.Snapshot{
			Key:     "https://ironpeak.com",
			Kind:    storelens.SnapshotAnalysis,
			Payload: analysisPayload,
		}
		require.NoError(t, s.CreateSnapshot(ctx, analysis))

		assert.NotEqual(t, insights.ID, analysis.ID)

		found, err := s.FindSnapshotByKey(ctx, "https://ironpeak.com", storelens.SnapshotAnalysis)
		require.NoError(t, err)
		assert.Equal(t, analysis.ID, found.ID)
	})

	t.Run("rejects invalid snapshots", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		err := s.CreateSnapshot(context.Background(), &storelens.Snapshot{
			Kind:    storelens.SnapshotInsights,
			Payload: []byte("{}"),
		})
		require.Error(t, err)
		assert.Equal(t, storelens.EINVALID, storelens.ErrorCode(err))
	})
}

func TestSnapshotService_FindSnapshotByKey(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing key", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		_, err := s.FindSnapshotByKey(context.Background(), "https://missing.com", storelens.SnapshotInsights)
		require.Error(t, err)
		assert.Equal(t, storelens.ENOTFOUND, storelens.ErrorCode(err))
	})
}

func TestSnapshotService_FindSnapshots(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, s *sqlite.SnapshotService, keys ...string) {
		t.Helper()
		for _, key := range keys {
			snap := &storelens.Snapshot{
				Key:     key,
				Kind:    storelens.SnapshotInsights,
				Payload: insightsPayload(t, key),
			}
			require.NoError(t, s.CreateSnapshot(context.Background(), snap))
		}
	}

	t.Run("filters by key", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		seed(t, s, "https://a.com", "https://b.com", "https://c.com")

		key := "https://b.com"
		snaps, err := s.FindSnapshots(context.Background(), storelens.SnapshotFilter{Key: &key})
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "https://b.com", snaps[0].Key)
	})

	t.Run("filters by kind", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		seed(t, s, "https://a.com")

		kind := storelens.SnapshotAnalysis
		snaps, err := s.FindSnapshots(context.Background(), storelens.SnapshotFilter{Kind: &kind})
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewSnapshotService(newTestDB(t))
		seed(t, s, "https://a.com", "https://b.com", "https://c.com")

		snaps, err := s.FindSnapshots(context.Background(), storelens.SnapshotFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, snaps, 2)

		snaps, err = s.FindSnapshots(context.Background(), storelens.SnapshotFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
	})
}
