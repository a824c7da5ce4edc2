package pkguid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()
	id := gen.Generate()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
	if id == gen.Generate() {
		t.Fatalf("expected distinct ids")
	}
}
