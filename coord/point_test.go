package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: 7, Z: 9}, a.Add(b))
}

func TestPoint_Equal(t *testing.T) {
	assert.True(t, Point{X: 1, Y: 2, Z: 3}.Equal(Point{X: 1, Y: 2, Z: 3}))
	assert.False(t, Point{X: 1, Y: 2, Z: 3}.Equal(Point{X: 1, Y: 2, Z: 4}))
}

func TestPoint_Sub(t *testing.T) {
	a := Point{X: 4, Y: 5, Z: 6}
	b := Point{X: 1, Y: 2, Z: 3}

	assert.Equal(t, Point{X: 3, Y: 3, Z: 3}, a.Sub(b))
}

func TestAxes_Point(t *testing.T) {
	assert.Equal(t, Point{X: 1, Y: 2, Z: 3}, XYZ(1, 2, 3).Point())

	partial := Axes{X: Value(7)}
	assert.Equal(t, Point{X: 7}, partial.Point())
	assert.Nil(t, partial.Y)
	assert.Nil(t, partial.Z)
}
