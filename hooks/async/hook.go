// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    UnknownSymbolEvery: 10, // sample logs: ~every 10th unknown index
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := wlserial.New(wlserial.Options{
//	    Symbols: table,
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/wlserial"
)

// Hooks forwards events to inner on worker goroutines. Events that do not fit
// in the queue are dropped and counted.
type Hooks struct {
	inner   wlserial.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ wlserial.Hooks = (*Hooks)(nil)

func New(inner wlserial.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed queue
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) SentinelMismatch(got uint32) { h.try(func() { h.inner.SentinelMismatch(got) }) }
func (h *Hooks) TrailingDefaulted(f string)  { h.try(func() { h.inner.TrailingDefaulted(f) }) }
func (h *Hooks) PassThrough(b string)        { h.try(func() { h.inner.PassThrough(b) }) }
func (h *Hooks) CacheSetRejected(k string)   { h.try(func() { h.inner.CacheSetRejected(k) }) }
func (h *Hooks) CacheSelfHeal(k, r string)   { h.try(func() { h.inner.CacheSelfHeal(k, r) }) }
func (h *Hooks) PartDropped(c, s string)     { h.try(func() { h.inner.PartDropped(c, s) }) }
func (h *Hooks) UnknownSymbol(c string, i uint32) {
	h.try(func() { h.inner.UnknownSymbol(c, i) })
}
