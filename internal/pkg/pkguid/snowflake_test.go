package pkguid

import (
	"testing"
	"time"
)

func TestGenerateRandomNodeIDRange(t *testing.T) {
	for range 50 {
		id, err := generateRandomNodeID()
		if err != nil {
			t.Fatalf("generateRandomNodeID: %v", err)
		}
		if id < 0 || id > 1023 {
			t.Fatalf("expected id within 0..1023, got %d", id)
		}
	}
}

func TestSnowflakeGenerateUnique(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	seen := make(map[int64]struct{})
	for range 1000 {
		id := gen.Generate()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSnowflakeWithNode(t *testing.T) {
	gen, err := NewSnowflake(WithNode(7))
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	before := time.Now().Add(-time.Second)
	created := CreatedAt(gen.Generate())
	if created.Before(before) || created.After(time.Now().Add(time.Second)) {
		t.Fatalf("unexpected creation time %v", created)
	}
}

func TestSnowflakeInvalidNode(t *testing.T) {
	if _, err := NewSnowflake(WithNode(4096)); err == nil {
		t.Fatalf("expected error for out of range node")
	}
}
