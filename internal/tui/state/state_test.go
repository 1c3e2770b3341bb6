package state

import "testing"

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(4, 0); got != 0 {
		t.Fatalf("expected 0 for empty size, got %d", got)
	}
}

func TestWrapCursor(t *testing.T) {
	cases := []struct {
		cursor, delta, size, want int
	}{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{7, 1, 3, 0},
		{1, 1, 0, 0},
	}
	for _, tc := range cases {
		if got := WrapCursor(tc.cursor, tc.delta, tc.size); got != tc.want {
			t.Fatalf("WrapCursor(%d, %d, %d) = %d, want %d", tc.cursor, tc.delta, tc.size, got, tc.want)
		}
	}
}

func TestGridColumns(t *testing.T) {
	if got := GridColumns(100, 30, 5); got != 3 {
		t.Fatalf("expected 3 columns, got %d", got)
	}
	if got := GridColumns(20, 30, 5); got != 1 {
		t.Fatalf("expected at least one column, got %d", got)
	}
	if got := GridColumns(400, 30, 5); got != 5 {
		t.Fatalf("expected the column cap, got %d", got)
	}
}
