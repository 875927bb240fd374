package wlserial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/wlserial/codec"
	"github.com/unkn0wn-root/wlserial/internal/util"
	pr "github.com/unkn0wn-root/wlserial/provider"
)

// SetCostFunc computes the provider cost of a cached entry.
type SetCostFunc func(key string, raw []byte) int64

// CacheOptions tune a DecodeCache. Only Provider is required.
type CacheOptions struct {
	Provider pr.Provider
	Codec    codec.Codec[Item] // record codec for cached items; nil => Msgpack

	TTL            time.Duration // 0 => 30m
	Logger         Logger        // nil => the codec's logger
	Hooks          Hooks         // nil => the codec's hooks
	ComputeSetCost SetCostFunc   // default 1
	Disabled       bool
}

// DecodeCache memoizes Decode results in a byte store. Loading a save decodes
// every item at once; repeated loads then skip the cipher and bit unpacking.
// Only successful decodes are cached. Entries are keyed by the codec's mode,
// the fingerprint of its symbol tables (see symbols.Fingerprinter) and the
// serial. Tables without a fingerprint share keys across datasets.
type DecodeCache struct {
	codec    *Codec
	provider pr.Provider
	records  codec.Codec[Item]
	log      Logger
	hooks    Hooks
	ttl      time.Duration
	cost     SetCostFunc
	enabled  bool
}

func NewDecodeCache(c *Codec, opts CacheOptions) (*DecodeCache, error) {
	if c == nil {
		return nil, errors.New("wlserial: codec is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("wlserial: cache provider is required")
	}
	dc := &DecodeCache{
		codec:    c,
		provider: opts.Provider,
		enabled:  !opts.Disabled,
	}
	if opts.Codec != nil {
		dc.records = opts.Codec
	} else {
		dc.records = codec.Msgpack[Item]{}
	}
	dc.log = coalesce[Logger](opts.Logger, c.log)
	dc.hooks = coalesce[Hooks](opts.Hooks, c.hooks)
	dc.ttl = coalesce[time.Duration](opts.TTL, defaultCacheTTL)
	if opts.ComputeSetCost != nil {
		dc.cost = opts.ComputeSetCost
	} else {
		dc.cost = func(string, []byte) int64 { return 1 }
	}
	return dc, nil
}

func (dc *DecodeCache) key(serial []byte) string {
	return util.ItemKey(dc.codec.mode.String(), dc.codec.tables, serial)
}

// Decode returns the cached item for serial or decodes and caches it.
// Provider errors on read fall back to a fresh decode.
func (dc *DecodeCache) Decode(ctx context.Context, serial []byte) (*Item, error) {
	if !dc.enabled {
		return dc.codec.Decode(serial)
	}
	k := dc.key(serial)
	if it, ok := dc.lookup(ctx, k, serial); ok {
		return it, nil
	}

	it, err := dc.codec.Decode(serial)
	if err != nil {
		return nil, err
	}
	payload, err := dc.records.Encode(*it)
	if err != nil {
		return nil, fmt.Errorf("wlserial: encode cached item: %w", err)
	}
	ok, err := dc.provider.Set(ctx, k, payload, dc.cost(k, payload), dc.ttl)
	if err != nil {
		dc.log.Warn("decode cache set failed", Fields{"key": k, "err": err})
	} else if !ok {
		dc.log.Debug("decode cache set rejected by provider (pressure)", Fields{"key": k})
		dc.hooks.CacheSetRejected(k)
	}
	return it, nil
}

func (dc *DecodeCache) lookup(ctx context.Context, k string, serial []byte) (*Item, bool) {
	raw, ok, err := dc.provider.Get(ctx, k)
	if err != nil {
		dc.log.Warn("decode cache get failed", Fields{"key": k, "err": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	it, err := dc.records.Decode(raw)
	if err != nil {
		_ = dc.provider.Del(ctx, k) // self-heal
		dc.hooks.CacheSelfHeal(k, "corrupt")
		return nil, false
	}
	// guard against hash collisions and foreign writes
	if !bytes.Equal(it.Raw, serial) {
		_ = dc.provider.Del(ctx, k)
		dc.hooks.CacheSelfHeal(k, "mismatch")
		return nil, false
	}
	return &it, true
}

// DecodeText unwraps a TAG(base64) serial and decodes it through the cache.
func (dc *DecodeCache) DecodeText(ctx context.Context, s string) (*Item, error) {
	b, err := dc.codec.mode.Unwrap(s)
	if err != nil {
		return nil, err
	}
	return dc.Decode(ctx, b)
}

// Invalidate drops the cached entry for serial.
func (dc *DecodeCache) Invalidate(ctx context.Context, serial []byte) error {
	if !dc.enabled {
		return nil
	}
	return dc.provider.Del(ctx, dc.key(serial))
}

// Close releases the provider.
func (dc *DecodeCache) Close(ctx context.Context) error {
	return dc.provider.Close(ctx)
}
