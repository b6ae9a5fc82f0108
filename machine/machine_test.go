package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/grblctl/coord"
	"github.com/mastercactapus/grblctl/grbl"
	"github.com/mastercactapus/grblctl/locations"
)

func newVirtual(t *testing.T) (*Machine, *grbl.Client) {
	t.Helper()
	client := grbl.New(grbl.Config{Virtual: true})
	m, err := New(Config{
		Client: client,
		Locations: locations.Table{
			"rack": {XOrigin: 10, YOrigin: 20, NumX: 4, XOffset: 9, NumY: 6, YOffset: 9},
		},
	})
	require.NoError(t, err)
	return m, client
}

func TestNew_InvalidBounds(t *testing.T) {
	_, err := New(Config{
		Client: grbl.New(grbl.Config{Virtual: true}),
		Bounds: Bounds{XLow: 10, XHigh: -10, YHigh: 1, ZHigh: 1},
	})
	assert.Error(t, err)
}

func TestBounds_Contains(t *testing.T) {
	b := DefaultBounds // X 0..270, Y 0..150, Z -35..0

	assert.True(t, b.Contains(coord.XYZ(0, 0, 0)))
	assert.True(t, b.Contains(coord.XYZ(270, 150, -35)))
	assert.True(t, b.Contains(coord.XYZ(100, 75, -10)))

	assert.False(t, b.Contains(coord.XYZ(-0.001, 0, 0)))
	assert.False(t, b.Contains(coord.XYZ(270.001, 0, 0)))
	assert.False(t, b.Contains(coord.XYZ(0, 150.001, 0)))
	assert.False(t, b.Contains(coord.XYZ(0, 0, 0.001)))
	assert.False(t, b.Contains(coord.XYZ(0, 0, -35.001)))

	// unset axes always pass
	assert.True(t, b.Contains(coord.Axes{}))
	assert.True(t, b.Contains(coord.Axes{Z: coord.Value(-35)}))
	assert.False(t, b.Contains(coord.Axes{Z: coord.Value(-36)}))
}

func TestBuildMove(t *testing.T) {
	assert.Equal(t, "G1 X1.000 Y2.000 Z3.000 F3000",
		BuildMove(coord.XYZ(1, 2, 3), 3000, false).String())

	assert.Equal(t, "G0 Z-5.000 F1200",
		BuildMove(coord.Axes{Z: coord.Value(-5)}, 1200, true).String())

	// no axis tokens for unset axes, exactly one F token
	assert.Equal(t, "G1 F3000", BuildMove(coord.Axes{}, 3000, false).String())
}

func TestMoveTo(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.MoveTo(coord.XYZ(10, 20, -5), 0, false))
	assert.Equal(t, []string{"G1 X10.000 Y20.000 Z-5.000 F3000"}, client.CommandLog())
}

func TestMoveTo_OutOfBounds(t *testing.T) {
	m, client := newVirtual(t)

	err := m.MoveTo(coord.XYZ(999, 0, 0), 3000, false)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Empty(t, client.CommandLog())
}

func TestMoveToSafe(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.MoveToSafe(coord.Point{X: 10, Y: 20, Z: -5}, 2400, false))
	assert.Equal(t, []string{
		"G53 G0 Z0.000",
		"G90",
		"G1 X10.000 Y20.000 F2400",
		"G1 Z-5.000",
	}, client.CommandLog())

	st, err := client.QueryStatus()
	require.NoError(t, err)
	assert.True(t, st.Idle())
	assert.Equal(t, coord.Point{X: 10, Y: 20, Z: -5}, st.MPos)
}

func TestMoveToSafe_OutOfBounds(t *testing.T) {
	m, client := newVirtual(t)

	err := m.MoveToSafe(coord.Point{X: 10, Y: 20, Z: 5}, 2400, false)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Empty(t, client.CommandLog())
}

func TestMoveThrough_SkipsOutOfBounds(t *testing.T) {
	m, client := newVirtual(t)

	points := []coord.Point{
		{X: 10, Y: 10},
		{X: 999, Y: 10},
		{X: 20, Y: 20, Z: -1},
	}
	require.NoError(t, m.MoveThrough(points, 1500))
	assert.Equal(t, []string{
		"G90",
		"G1 X10.000 Y10.000 Z0.000 F1500",
		"G1 X20.000 Y20.000 Z-1.000 F1500",
	}, client.CommandLog())
}

func TestHome(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.Home(DefaultHome))
	assert.Equal(t, []string{
		"$X",
		"$H",
		"G21", "G90", "G94", "G54",
		"G10 L20 P1 X0 Y0 Z0",
		"G53 G0 Z0.000",
		"G0 X0.000 Y0.000",
		"G0 Z0.000",
	}, client.CommandLog())

	st, err := client.QueryStatus()
	require.NoError(t, err)
	assert.True(t, st.Idle())
	assert.Equal(t, coord.Point{}, st.MPos)
}

func TestHome_NoOptions(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.Home(HomeOptions{}))
	assert.Equal(t, []string{"$H", "G21", "G90", "G94", "G54"}, client.CommandLog())
}

func TestOrigin(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.Origin())
	assert.Equal(t, []string{
		"G53 G0 Z0.000",
		"G90",
		"G0 X0.000 Y0.000 F3000",
		"G0 Z0.000",
	}, client.CommandLog())
}

func TestSetSafeModes(t *testing.T) {
	m, client := newVirtual(t)

	require.NoError(t, m.SetSafeModes())
	assert.Equal(t, []string{"G21", "G90", "G94", "G54"}, client.CommandLog())
}

func TestMoveToLocation(t *testing.T) {
	m, client := newVirtual(t)

	// rack slot 5 -> column 1, row 1 -> (19, 29, 0)
	require.NoError(t, m.MoveToLocation("rack", 5, true, 0))

	st, err := client.QueryStatus()
	require.NoError(t, err)
	assert.Equal(t, coord.Point{X: 19, Y: 29, Z: 0}, st.MPos)
}

func TestMoveToLocation_Unknown(t *testing.T) {
	m, client := newVirtual(t)

	err := m.MoveToLocation("nope", 0, true, 0)
	assert.ErrorIs(t, err, locations.ErrUnknownLocation)
	assert.Empty(t, client.CommandLog())
}

func TestRun(t *testing.T) {
	m, client := newVirtual(t)

	acks, err := m.Run("G90\nG1 X5.000 F3000\n\nG1 Y6.000 F3000\n", true)
	require.NoError(t, err)
	assert.Len(t, acks, 3)

	st, _ := client.QueryStatus()
	assert.Equal(t, coord.Point{X: 5, Y: 6}, st.MPos)
}

func TestRun_Empty(t *testing.T) {
	m, _ := newVirtual(t)

	acks, err := m.Run("\n  \n", true)
	require.NoError(t, err)
	assert.Empty(t, acks)
}
