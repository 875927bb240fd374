package symbols

import (
	"context"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/wlserial/codec"
	"github.com/unkn0wn-root/wlserial/provider"
)

var ErrNoSnapshot = errors.New("symbols: no snapshot published")

// SnapshotKey is the provider key a dataset for mode is published under.
func SnapshotKey(mode string) string { return "symbols:" + mode }

// Publish stores ds in p under SnapshotKey(ds.Mode) with no expiry.
func Publish(ctx context.Context, p provider.Provider, c codec.Codec[Dataset], ds Dataset) error {
	raw, err := c.Encode(ds)
	if err != nil {
		return fmt.Errorf("symbols: encode dataset: %w", err)
	}
	ok, err := p.Set(ctx, SnapshotKey(ds.Mode), raw, int64(len(raw)), 0)
	if err != nil {
		return fmt.Errorf("symbols: publish %q: %w", ds.Mode, err)
	}
	if !ok {
		return fmt.Errorf("symbols: publish %q: rejected by provider", ds.Mode)
	}
	return nil
}

// Fetch loads the dataset published for mode and builds a table from it.
// A payload that does not decode is deleted so the next Publish starts clean.
func Fetch(ctx context.Context, p provider.Provider, c codec.Codec[Dataset], mode string) (*Static, error) {
	key := SnapshotKey(mode)
	raw, ok, err := p.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("symbols: fetch %q: %w", mode, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w for mode %q", ErrNoSnapshot, mode)
	}
	t, err := Load(c, raw)
	if err != nil {
		_ = p.Del(ctx, key)
		return nil, err
	}
	return t, nil
}
