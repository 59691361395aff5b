// Package mock provides function-field mock implementations of the
// storelens interfaces for tests.
package mock

import (
	"context"

	"github.com/storelens/storelens"
)

var _ storelens.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of storelens.Fetcher.
type Fetcher struct {
	FetchFn            func(ctx context.Context, url string) (string, error)
	FetchWithHeadersFn func(ctx context.Context, url string) (string, map[string]string, error)
	CloseFn            func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) FetchWithHeaders(ctx context.Context, url string) (string, map[string]string, error) {
	if f.FetchWithHeadersFn != nil {
		return f.FetchWithHeadersFn(ctx, url)
	}
	body, err := f.FetchFn(ctx, url)
	return body, nil, err
}

func (f *Fetcher) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}

var _ storelens.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of storelens.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn != nil {
		return d.WaitFn(ctx, domain)
	}
	return nil
}
