package ristretto

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestSyncSetIsVisible(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Sync = true
	cfg.Metrics = true
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	ok, err := p.Set(ctx, "item:standard:1", []byte("v1"), 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "item:standard:1")
	if err != nil || !ok || !bytes.Equal(got, []byte("v1")) {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}
	if p.Metrics() == nil {
		t.Fatalf("metrics enabled but nil")
	}

	if err := p.Del(ctx, "item:standard:1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "item:standard:1"); ok {
		t.Fatalf("hit after Del")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}
