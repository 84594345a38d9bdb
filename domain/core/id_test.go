package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseRunID(t *testing.T) {
	if _, err := ParseRunID("  "); err == nil {
		t.Error("expected error for blank run ID")
	}
	id, err := ParseRunID("run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "run-1" {
		t.Errorf("expected run-1, got %s", id)
	}
}

func TestNewRunIDAndRepetitionIDDiffer(t *testing.T) {
	if NewRunID().String() == NewRepetitionID().String() {
		t.Error("run and repetition IDs should not collide")
	}
}
