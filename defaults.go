package wlserial

import "time"

const (
	defaultCacheTTL = 30 * time.Minute
	maxLevel        = 1<<levelBits - 1
	minLevel        = 1
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
