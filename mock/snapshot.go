package mock

import (
	"context"

	"github.com/storelens/storelens"
)

var _ storelens.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of storelens.SnapshotService.
type SnapshotService struct {
	FindSnapshotByKeyFn func(ctx context.Context, key string, kind storelens.SnapshotKind) (*storelens.Snapshot, error)
	CreateSnapshotFn    func(ctx context.Context, snap *storelens.Snapshot) error
	FindSnapshotsFn     func(ctx context.Context, filter storelens.SnapshotFilter) ([]*storelens.Snapshot, error)
}

func (s *SnapshotService) FindSnapshotByKey(ctx context.Context, key string, kind storelens.SnapshotKind) (*storelens.Snapshot, error) {
	return s.FindSnapshotByKeyFn(ctx, key, kind)
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *storelens.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snap)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter storelens.SnapshotFilter) ([]*storelens.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}
