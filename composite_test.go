package ink

import (
	"image"
	"testing"
)

// TestMulDiv255 checks the rounding multiply against known values.
func TestMulDiv255(t *testing.T) {
	tests := []struct {
		a, b, want byte
	}{
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{100, 127, 50},
		{200, 127, 100},
	}
	for _, tt := range tests {
		if got := mulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("mulDiv255(%d, %d): got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestDestinationOut verifies the knockout compositing against hand
// computed pixels, including the offset window placement.
func TestDestinationOut(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = 100
		dst.Pix[i+1] = 100
		dst.Pix[i+2] = 100
		dst.Pix[i+3] = 200
	}

	// 2x2 mask placed at (1, 1): full, none, half, full coverage.
	mask := image.NewRGBA(image.Rect(0, 0, 2, 2))
	setAlpha := func(x, y int, a byte) { mask.Pix[mask.PixOffset(x, y)+3] = a }
	setAlpha(0, 0, 255)
	setAlpha(1, 0, 0)
	setAlpha(0, 1, 128)
	setAlpha(1, 1, 255)

	destinationOut(dst, mask, 1, 1)

	check := func(x, y int, want [4]byte) {
		t.Helper()
		i := dst.PixOffset(x, y)
		got := [4]byte{dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3]}
		if got != want {
			t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
		}
	}

	check(1, 1, [4]byte{0, 0, 0, 0})         // full coverage knocks out
	check(2, 1, [4]byte{100, 100, 100, 200}) // zero coverage leaves alone
	check(1, 2, [4]byte{50, 50, 50, 100})    // half coverage halves
	check(2, 2, [4]byte{0, 0, 0, 0})
	check(0, 0, [4]byte{100, 100, 100, 200}) // outside the window
	check(3, 3, [4]byte{100, 100, 100, 200})
}

// TestDestinationOut_WindowClipped verifies a mask hanging off the
// destination edge does not write out of bounds.
func TestDestinationOut_WindowClipped(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	mask := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := 3; i < len(mask.Pix); i += 4 {
		mask.Pix[i] = 255
	}

	destinationOut(dst, mask, 1, 1)

	if a := dst.Pix[dst.PixOffset(0, 0)+3]; a != 255 {
		t.Errorf("pixel (0,0): got alpha %d, want 255", a)
	}
	if a := dst.Pix[dst.PixOffset(1, 1)+3]; a != 0 {
		t.Errorf("pixel (1,1): got alpha %d, want 0", a)
	}
}
