package storelens

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// SnapshotKind distinguishes what a snapshot holds.
type SnapshotKind string

// Snapshot kinds.
const (
	SnapshotInsights SnapshotKind = "insights"
	SnapshotAnalysis SnapshotKind = "analysis"
)

// Snapshot is an immutable persisted extraction result, keyed by the
// normalized brand URL. The payload is the JSON encoding of either a
// BrandInsights or a CompetitorAnalysis depending on Kind.
type Snapshot struct {
	ID          string       `json:"id"`
	Key         string       `json:"key"`
	Kind        SnapshotKind `json:"kind"`
	BrandName   string       `json:"brandName,omitempty"`
	Payload     []byte       `json:"payload"`
	ContentHash string       `json:"contentHash"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.Key == "" {
		return Errorf(EINVALID, "snapshot key required")
	}
	if s.Kind != SnapshotInsights && s.Kind != SnapshotAnalysis {
		return Errorf(EINVALID, "snapshot kind %q invalid", s.Kind)
	}
	if len(s.Payload) == 0 {
		return Errorf(EINVALID, "snapshot payload required")
	}
	return nil
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	Key  *string       `json:"key"`
	Kind *SnapshotKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SnapshotService persists extraction results.
type SnapshotService interface {
	// FindSnapshotByKey retrieves the snapshot for a key and kind.
	// Returns ENOTFOUND if no snapshot exists.
	FindSnapshotByKey(ctx context.Context, key string, kind SnapshotKind) (*Snapshot, error)

	// CreateSnapshot persists a snapshot. Creation is idempotent per
	// (key, kind): when a snapshot already exists the stored one is kept
	// and copied back into snap, so repeated runs for the same brand
	// return the prior result.
	CreateSnapshot(ctx context.Context, snap *Snapshot) error

	// FindSnapshots retrieves snapshots matching the filter.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)
}

// NormalizeBrandURL canonicalizes a brand URL for use as a snapshot key:
// https scheme is assumed when missing, the host is lowercased, and
// trailing slashes, fragments and query strings are dropped.
func NormalizeBrandURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(EINVALID, "brand URL required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", Errorf(EINVALID, "invalid brand URL %q", raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}
