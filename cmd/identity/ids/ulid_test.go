package ids

import (
	"testing"
	"time"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	a, err := NewULID(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	b, err := NewULID(time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("unexpected lengths: %d %d", len(a), len(b))
	}
	if !(a < b) {
		t.Fatalf("expected time ordering: %s < %s", a, b)
	}
	if !Valid(a) {
		t.Fatalf("expected %q to be valid", a)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "abc", "not-a-ulid-at-all-xxxxxxxx", "64f1c2d3e4b5a69788990011"} {
		if Valid(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
