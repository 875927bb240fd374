package util

import (
	"strings"
	"testing"
)

func TestItemKeyShapeAndStability(t *testing.T) {
	a := ItemKey("standard", "", []byte{5, 0, 0, 0, 0, 1, 2})
	b := ItemKey("standard", "", []byte{5, 0, 0, 0, 0, 1, 2})
	if a != b {
		t.Fatalf("unstable key: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "item:standard:") || len(a) != len("item:standard:")+16 {
		t.Fatalf("unexpected key shape: %q", a)
	}
	if ItemKey("legacy", "", []byte{5}) == ItemKey("standard", "", []byte{5}) {
		t.Fatalf("mode not part of key")
	}
	if ItemKey("standard", "", []byte{5}) == ItemKey("standard", "", []byte{4}) {
		t.Fatalf("serial not part of key")
	}
}

func TestItemKeyIncludesTables(t *testing.T) {
	a := ItemKey("standard", "00000000000000aa", []byte{5})
	b := ItemKey("standard", "00000000000000bb", []byte{5})
	if a == b {
		t.Fatalf("tables not part of key")
	}
	if !strings.HasPrefix(a, "item:standard:00000000000000aa:") || len(a) != len("item:standard:00000000000000aa:")+16 {
		t.Fatalf("unexpected key shape: %q", a)
	}
}
