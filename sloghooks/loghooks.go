// Package sloghooks logs wlserial hook events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/wlserial"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	UnknownSymbolEvery uint64
	PartDroppedEvery   uint64
	// Optional cache key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	unknownCtr atomic.Uint64
	droppedCtr atomic.Uint64
}

var _ wlserial.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SentinelMismatch(got uint32) {
	if h.l == nil {
		return
	}
	h.l.Warn("wlserial.sentinel_mismatch", "got", got)
}

func (h *Hooks) UnknownSymbol(category string, index uint32) {
	if h.l == nil || !sample(h.opts.UnknownSymbolEvery, &h.unknownCtr) {
		return
	}
	h.l.Info("wlserial.unknown_symbol",
		"category", category,
		"index", index)
}

func (h *Hooks) TrailingDefaulted(field string) {
	if h.l == nil {
		return
	}
	h.l.Debug("wlserial.trailing_defaulted", "field", field)
}

func (h *Hooks) PartDropped(category, symbol string) {
	if h.l == nil || !sample(h.opts.PartDroppedEvery, &h.droppedCtr) {
		return
	}
	h.l.Info("wlserial.part_dropped",
		"category", category,
		"symbol", symbol)
}

func (h *Hooks) PassThrough(balance string) {
	if h.l == nil {
		return
	}
	h.l.Debug("wlserial.pass_through", "balance", balance)
}

func (h *Hooks) CacheSelfHeal(key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Debug("wlserial.cache_self_heal",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) CacheSetRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("wlserial.cache_set_rejected", "key", h.redact(key))
}
