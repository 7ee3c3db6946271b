package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	b, _ := gen.NewID()
	if a == b {
		t.Fatalf("expected distinct ids")
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	seq := &Sequence{Prefix: "lg-"}
	first, _ := seq.NewID()
	second, _ := seq.NewID()
	if first != "lg-1" || second != "lg-2" {
		t.Fatalf("unexpected sequence %s %s", first, second)
	}
}
