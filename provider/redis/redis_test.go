package redis

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestNilClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("want ErrNilClient, got %v", err)
	}
}

func TestCloseHonorsOwnership(t *testing.T) {
	ctx := context.Background()
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})

	shared, err := New(Config{Client: rdb, Prefix: "t:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := shared.Close(ctx); err != nil {
		t.Fatalf("Close (shared): %v", err)
	}

	owned, _ := New(Config{Client: rdb, CloseClient: true})
	if err := owned.Close(ctx); err != nil {
		t.Fatalf("Close (owned): %v", err)
	}
	// closing twice is tolerated
	if err := owned.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
