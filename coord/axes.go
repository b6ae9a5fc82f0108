package coord

// Axes is a partial coordinate. A nil axis means "do not command that axis."
type Axes struct {
	X, Y, Z *float64
}

// XYZ returns an Axes value with all three axes set.
func XYZ(x, y, z float64) Axes {
	return Axes{X: &x, Y: &y, Z: &z}
}

// Value returns a pointer suitable for a single Axes field.
func Value(v float64) *float64 { return &v }

// Point returns the axes as a Point, substituting 0 for unset axes.
func (a Axes) Point() (p Point) {
	if a.X != nil {
		p.X = *a.X
	}
	if a.Y != nil {
		p.Y = *a.Y
	}
	if a.Z != nil {
		p.Z = *a.Z
	}
	return p
}
