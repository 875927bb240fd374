package wlserial

// Hooks are lightweight callbacks for high-signal codec events.
// Implementations MUST be cheap and non-blocking; see hooks/async for a
// queueing wrapper.
type Hooks interface {
	// The constant byte leading the packed body was not 128. Decoding continues.
	SentinelMismatch(got uint32)

	// Decode met an index the table could not resolve; the placeholder
	// symbols.Unknown was stored instead.
	UnknownSymbol(category string, index uint32)

	// A trailing best-effort field was missing and left at its default.
	// field ∈ {"customization_count", "reroll_count"}
	TrailingDefaulted(field string)

	// Encode dropped a part the table cannot index under the item's category.
	PartDropped(category, symbol string)

	// Encode returned retained raw bytes for an unrecognized item type.
	PassThrough(balance string)

	// The decode cache deleted an entry it could not use.
	// reason ∈ {"corrupt", "mismatch"}
	CacheSelfHeal(key, reason string)

	// The cache provider returned ok=false on Set.
	CacheSetRejected(key string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) SentinelMismatch(uint32)      {}
func (NopHooks) UnknownSymbol(string, uint32) {}
func (NopHooks) TrailingDefaulted(string)     {}
func (NopHooks) PartDropped(string, string)   {}
func (NopHooks) PassThrough(string)           {}
func (NopHooks) CacheSelfHeal(string, string) {}
func (NopHooks) CacheSetRejected(string)      {}
