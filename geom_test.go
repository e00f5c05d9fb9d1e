package ink

import (
	"image"
	"testing"
)

// TestRect_Normalize verifies negative spans are folded back to the
// minimum corner.
func TestRect_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"already normal", Rect{10, 20, 30, 40}, Rect{10, 20, 30, 40}},
		{"negative width", Rect{100, 20, -30, 40}, Rect{70, 20, 30, 40}},
		{"negative height", Rect{10, 100, 30, -40}, Rect{10, 60, 30, 40}},
		{"both negative", Rect{100, 100, -30, -40}, Rect{70, 60, 30, 40}},
		{"zero size", Rect{5, 5, 0, 0}, Rect{5, 5, 0, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

// TestRect_Clamp verifies rectangles are restricted to the page area.
func TestRect_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{10, 10, 20, 20}, Rect{10, 10, 20, 20}},
		{"overlaps left", Rect{-10, 10, 30, 20}, Rect{0, 10, 20, 20}},
		{"overlaps bottom right", Rect{90, 90, 30, 30}, Rect{90, 90, 10, 10}},
		{"fully outside", Rect{200, 200, 10, 10}, Rect{100, 100, 0, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(100, 100); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

// TestRect_ImageRect verifies fractional rectangles round outward.
func TestRect_ImageRect(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want image.Rectangle
	}{
		{"integral", Rect{1, 2, 3, 4}, image.Rect(1, 2, 4, 6)},
		{"fractional", Rect{0.5, 0.5, 1.2, 1.2}, image.Rect(0, 0, 2, 2)},
	}
	for _, tt := range tests {
		if got := tt.in.ImageRect(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestRect_Empty verifies the degenerate cases.
func TestRect_Empty(t *testing.T) {
	if (Rect{0, 0, 10, 10}).Empty() {
		t.Error("10x10 rect should not be empty")
	}
	if !(Rect{0, 0, 0, 10}).Empty() {
		t.Error("zero-width rect should be empty")
	}
	if !(Rect{0, 0, 10, -1}).Empty() {
		t.Error("negative-height rect should be empty")
	}
}
