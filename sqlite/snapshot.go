package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/storelens/storelens"
)

// Compile-time interface verification.
var _ storelens.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements storelens.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// hashPayload computes xxHash of a payload and returns a hex string.
func hashPayload(payload []byte) string {
	h := xxhash.Sum64(payload)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreateSnapshot persists a snapshot. When a snapshot already exists for
// the same (key, kind) the stored one wins and is copied back into snap,
// so callers always end up holding the canonical row.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *storelens.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	existing, err := s.FindSnapshotByKey(ctx, snap.Key, snap.Kind)
	if err == nil {
		*snap = *existing
		return nil
	}
	if storelens.ErrorCode(err) != storelens.ENOTFOUND {
		return err
	}

	snap.ID = uuid.New().String()
	snap.CreatedAt = time.Now().UTC()
	snap.ContentHash = hashPayload(snap.Payload)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, key, kind, brand_name, payload, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Key, string(snap.Kind), snap.BrandName, snap.Payload, snap.ContentHash,
		snap.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByKey retrieves the snapshot for a key and kind.
func (s *SnapshotService) FindSnapshotByKey(ctx context.Context, key string, kind storelens.SnapshotKind) (*storelens.Snapshot, error) {
	var snap storelens.Snapshot
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, kind, brand_name, payload, content_hash, created_at
		FROM snapshots
		WHERE key = ? AND kind = ?
	`, key, string(kind)).Scan(&snap.ID, &snap.Key, &snap.Kind, &snap.BrandName,
		&snap.Payload, &snap.ContentHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, storelens.Errorf(storelens.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}

	snap.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter storelens.SnapshotFilter) ([]*storelens.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, key, kind, brand_name, payload, content_hash, created_at FROM snapshots WHERE 1=1")

	if filter.Key != nil {
		query.WriteString(" AND key = ?")
		args = append(args, *filter.Key)
	}
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY created_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*storelens.Snapshot
	for rows.Next() {
		var snap storelens.Snapshot
		var createdAt string

		if err := rows.Scan(&snap.ID, &snap.Key, &snap.Kind, &snap.BrandName,
			&snap.Payload, &snap.ContentHash, &createdAt); err != nil {
			return nil, err
		}

		snap.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}
