package pixmap

import "testing"

func TestNewCanvasStartsTransparent(t *testing.T) {
	c := NewCanvas(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := c.At(x, y); got != (RGBA{}) {
				t.Fatalf("pixel (%d,%d) = %+v, want transparent", x, y, got)
			}
		}
	}
}

func TestNewCanvasPanicsOnBadSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 5}, {5, -3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewCanvas(%d, %d) did not panic", dims[0], dims[1])
				}
			}()
			NewCanvas(dims[0], dims[1])
		}()
	}
}

func TestAtOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.FillRoundedRect(0, 0, 1, 1, 0, RGBA{255, 0, 0, 255})
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := c.At(p[0], p[1]); got != (RGBA{}) {
			t.Errorf("At(%d,%d) = %+v, want transparent", p[0], p[1], got)
		}
	}
}

func TestFillRoundedRectSquareCorners(t *testing.T) {
	c := NewCanvas(5, 5)
	col := RGBA{10, 20, 30, 255}
	c.FillRoundedRect(1, 1, 3, 3, 0, col)

	if got := c.At(1, 1); got != col {
		t.Errorf("corner (1,1) = %+v, want %+v", got, col)
	}
	if got := c.At(3, 3); got != col {
		t.Errorf("corner (3,3) = %+v, want %+v", got, col)
	}
	if got := c.At(0, 0); got != (RGBA{}) {
		t.Errorf("outside pixel (0,0) = %+v, want transparent", got)
	}
	if got := c.At(4, 2); got != (RGBA{}) {
		t.Errorf("outside pixel (4,2) = %+v, want transparent", got)
	}
}

func TestFillRoundedRectRoundsCorners(t *testing.T) {
	c := NewCanvas(6, 6)
	col := RGBA{200, 200, 200, 255}
	c.FillRoundedRect(0, 0, 5, 5, 2, col)

	// Extreme corner pixels fall outside the quarter-circle.
	for _, p := range [][2]int{{0, 0}, {5, 0}, {0, 5}, {5, 5}} {
		if got := c.At(p[0], p[1]); got != (RGBA{}) {
			t.Errorf("corner pixel (%d,%d) = %+v, want excluded", p[0], p[1], got)
		}
	}
	// Edge midpoints and center stay filled.
	for _, p := range [][2]int{{2, 0}, {0, 2}, {5, 3}, {3, 5}, {2, 2}} {
		if got := c.At(p[0], p[1]); got != col {
			t.Errorf("pixel (%d,%d) = %+v, want %+v", p[0], p[1], got, col)
		}
	}
}

func TestFillRoundedRectOversizedRadius(t *testing.T) {
	// Radius beyond half the rect must not panic; over-rounding is fine.
	c := NewCanvas(6, 6)
	c.FillRoundedRect(0, 0, 5, 5, 50, RGBA{255, 255, 255, 255})

	// Moderate over-radius still keeps the middle of the rect.
	c2 := NewCanvas(5, 5)
	col := RGBA{1, 2, 3, 255}
	c2.FillRoundedRect(0, 0, 4, 4, 3, col)
	if got := c2.At(2, 2); got != col {
		t.Errorf("center pixel = %+v, want %+v", got, col)
	}
}

func TestFillRoundedRectClipsToCanvas(t *testing.T) {
	c := NewCanvas(4, 4)
	col := RGBA{9, 9, 9, 255}
	c.FillRoundedRect(-3, -3, 6, 1, 0, col) // extends past every edge horizontally
	if got := c.At(0, 0); got != col {
		t.Errorf("pixel (0,0) = %+v, want %+v", got, col)
	}
	if got := c.At(3, 1); got != col {
		t.Errorf("pixel (3,1) = %+v, want %+v", got, col)
	}
	if got := c.At(0, 2); got != (RGBA{}) {
		t.Errorf("pixel (0,2) = %+v, want transparent", got)
	}
}

func TestBlendOverTransparent(t *testing.T) {
	c := NewCanvas(1, 1)
	c.FillRoundedRect(0, 0, 0, 0, 0, RGBA{100, 200, 50, 128})
	want := RGBA{50, 100, 25, 128} // src*128/255, truncated
	if got := c.At(0, 0); got != want {
		t.Errorf("blended pixel = %+v, want %+v", got, want)
	}
}

func TestBlendLayeredSaturatesAlpha(t *testing.T) {
	c := NewCanvas(1, 1)
	src := RGBA{100, 200, 50, 128}
	c.FillRoundedRect(0, 0, 0, 0, 0, src)
	c.FillRoundedRect(0, 0, 0, 0, 0, src)
	// Color channels follow source-over; alpha accumulates and saturates.
	want := RGBA{75, 150, 37, 255}
	if got := c.At(0, 0); got != want {
		t.Errorf("layered pixel = %+v, want %+v", got, want)
	}
}

func TestBlendOpaqueReplaces(t *testing.T) {
	c := NewCanvas(1, 1)
	c.FillRoundedRect(0, 0, 0, 0, 0, RGBA{10, 10, 10, 255})
	top := RGBA{250, 1, 99, 255}
	c.FillRoundedRect(0, 0, 0, 0, 0, top)
	if got := c.At(0, 0); got != top {
		t.Errorf("pixel = %+v, want %+v", got, top)
	}
}
