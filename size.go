package curveedit

import (
	"fmt"
	"math"
)

type Size struct {
	Width  float64
	Height float64
}

// Sz returns the size w×h.
func Sz(w, h float64) Size {
	return Size{
		Width:  w,
		Height: h,
	}
}

func (sz Size) String() string {
	return fmt.Sprintf("%g×%g", sz.Width, sz.Height)
}

func (sz Size) Splat() (w float64, h float64) {
	return sz.Width, sz.Height
}

// Sub shrinks the size by v.
func (sz Size) Sub(v Vec2) Size {
	return Size{
		Width:  sz.Width - v.X,
		Height: sz.Height - v.Y,
	}
}

// NonNegative returns sz with negative or NaN dimensions replaced by zero. A
// layout that hasn't happened yet reports such sizes.
func (sz Size) NonNegative() Size {
	f := func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		return v
	}
	return Size{
		Width:  f(sz.Width),
		Height: f(sz.Height),
	}
}

// IsEmpty reports whether either dimension is zero or less.
func (sz Size) IsEmpty() bool {
	return !(sz.Width > 0 && sz.Height > 0)
}
