package domain

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Neutral colors used by objects that cannot change color.
var (
	White = colorful.Color{R: 1, G: 1, B: 1}
	Black = colorful.Color{R: 0, G: 0, B: 0}
)

// ColorType selects which color a render style uses for an object.
type ColorType int

const (
	ColorSpecified ColorType = iota
	ColorParent
	ColorBlack
	ColorWhite
	ColorMap
)

// Palette hands out distinct colors in a fixed rotation.
type Palette struct {
	colors []colorful.Color
	next   int
}

// NewPalette builds a rotating palette of n saturated colors. Hues are spread
// by the golden angle so neighbours in the rotation are easy to tell apart.
func NewPalette(n int) *Palette {
	if n <= 0 {
		n = 16
	}
	const goldenAngle = 137.50776405003785
	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		value := 0.95
		if i%2 == 1 {
			value = 0.8
		}
		colors[i] = colorful.Hsv(hue, 0.75, value).Clamped()
	}
	return &Palette{colors: colors}
}

// Next returns the next color and advances the rotation.
func (p *Palette) Next() colorful.Color {
	c := p.colors[p.next%len(p.colors)]
	p.next = (p.next + 1) % len(p.colors)
	return c
}

// Len returns the number of colors in the rotation.
func (p *Palette) Len() int {
	return len(p.colors)
}

// IsGrey reports whether c has no hue.
func IsGrey(c colorful.Color) bool {
	const eps = 1e-6
	return math.Abs(c.R-c.G) < eps && math.Abs(c.G-c.B) < eps
}
