package view

import (
	"testing"

	"imageview/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func newTestController() *Controller {
	return NewController(800, 600)
}

func TestDefaults(t *testing.T) {
	c := newTestController()
	s := c.State()

	assert.Equal(t, 1.0, s.Scale)
	assert.Equal(t, 0.1, s.ZoomDelta)
	assert.Equal(t, 1.0, s.TranslateSpeed)
	assert.Equal(t, Idle, s.Drag)
	assert.Equal(t, geometry.Point2D{}, c.Viewport().Center())

	// The scene origin is drawn at the middle of the viewport.
	assert.Equal(t, geometry.NewPoint2D(400, 300), c.SceneToView(geometry.Point2D{}))
}

func TestZoomKeepsPointUnderCursor(t *testing.T) {
	pointers := []geometry.Point2D{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: 123.5, Y: 77}, {X: 799, Y: 599}, {X: -40, Y: 900}}
	factors := []float64{1.1, 0.9, 2, 0.25, 1.0001}

	for _, rotation := range []float64{0, 5, -35, 90} {
		for _, p := range pointers {
			for _, f := range factors {
				c := newTestController()
				c.Rotate(rotation)
				c.Translate(geometry.NewPoint2D(17, -3))
				c.PointerMove(p)

				anchor := c.ViewToScene(p)
				c.Zoom(f)

				got := c.SceneToView(anchor)
				assert.Truef(t, got.ApproxEqual(p, 1e-7),
					"rotation %v pointer %v factor %v: anchor drawn at %v", rotation, p, f, got)
			}
		}
	}
}

func TestWheelZoomAnchorsOnLastPointer(t *testing.T) {
	c := newTestController()
	p := geometry.NewPoint2D(650, 120)
	c.PointerMove(p)
	anchor := c.ViewToScene(p)

	c.Wheel(1)
	c.Wheel(1)
	c.Wheel(-1)

	assert.True(t, c.SceneToView(anchor).ApproxEqual(p, 1e-7))
}

func TestCumulativeScale(t *testing.T) {
	c := newTestController()
	c.PointerMove(geometry.NewPoint2D(10, 20))

	c.Zoom(1.5)
	c.ZoomIn()
	c.ZoomOut()
	c.Wheel(3)
	c.Zoom(0.5)
	c.KeyPress(KeyZoomIn)

	want := 1.0 * 1.5 * 1.1 * 0.9 * 1.1 * 0.5 * 1.1
	assert.InDelta(t, want, c.State().Scale, tol)
	assert.InDelta(t, want, c.Viewport().Scale(), tol)
}

func TestZoomDeltaDrivesFactors(t *testing.T) {
	c := newTestController()
	c.SetZoomDelta(0.25)

	c.ZoomIn()
	assert.InDelta(t, 1.25, c.State().Scale, tol)
	c.ZoomOut()
	assert.InDelta(t, 1.25*0.75, c.State().Scale, tol)
}

func TestWheelZeroIsIgnored(t *testing.T) {
	c := newTestController()
	c.Wheel(0)
	assert.Equal(t, 1.0, c.State().Scale)
}

func TestDragFollowsPointer(t *testing.T) {
	c := newTestController()
	c.Zoom(2)

	start := geometry.NewPoint2D(100, 100)
	grabbed := c.ViewToScene(start)

	c.PointerPress(ButtonPrimary, start)
	require.True(t, c.State().Dragging())
	c.PointerMove(geometry.NewPoint2D(160, 70))
	c.PointerRelease(ButtonPrimary, geometry.NewPoint2D(160, 70))
	require.False(t, c.State().Dragging())

	assert.True(t, c.SceneToView(grabbed).ApproxEqual(geometry.NewPoint2D(160, 70), 1e-9))
}

func TestDragSplitMatchesSingleDrag(t *testing.T) {
	a := geometry.NewPoint2D(50, 60)
	m := geometry.NewPoint2D(300, 10)
	b := geometry.NewPoint2D(420, 380)

	for _, rotation := range []float64{0, 15, -90} {
		single := newTestController()
		split := newTestController()
		for _, c := range []*Controller{single, split} {
			c.SetTranslateSpeed(1.5)
			c.Zoom(1.7)
			c.Rotate(rotation)
		}

		single.PointerPress(ButtonPrimary, a)
		single.PointerMove(b)
		single.PointerRelease(ButtonPrimary, b)

		split.PointerPress(ButtonPrimary, a)
		split.PointerMove(m)
		split.PointerMove(b)
		split.PointerRelease(ButtonPrimary, b)

		assert.Truef(t, single.Viewport().Center().ApproxEqual(split.Viewport().Center(), 1e-9),
			"rotation %v: %v vs %v", rotation, single.Viewport().Center(), split.Viewport().Center())
	}
}

func TestMoveWithoutDragDoesNotPan(t *testing.T) {
	c := newTestController()
	c.PointerMove(geometry.NewPoint2D(10, 10))
	c.PointerMove(geometry.NewPoint2D(300, 200))

	assert.Equal(t, geometry.Point2D{}, c.Viewport().Center())
	assert.Equal(t, geometry.NewPoint2D(300, 200), c.State().LastPointer)
}

func TestOtherButtonsDoNotDrag(t *testing.T) {
	c := newTestController()
	c.PointerPress(ButtonSecondary, geometry.NewPoint2D(0, 0))
	assert.Equal(t, Idle, c.State().Drag)
	c.PointerPress(ButtonTertiary, geometry.NewPoint2D(0, 0))
	assert.Equal(t, Idle, c.State().Drag)

	c.PointerPress(ButtonPrimary, geometry.NewPoint2D(0, 0))
	assert.Equal(t, Dragging, c.State().Drag)

	// Releasing a different button keeps the drag going.
	c.PointerRelease(ButtonSecondary, geometry.NewPoint2D(0, 0))
	assert.Equal(t, Dragging, c.State().Drag)
	c.PointerRelease(ButtonPrimary, geometry.NewPoint2D(0, 0))
	assert.Equal(t, Idle, c.State().Drag)
}

func TestKeyboardStep(t *testing.T) {
	for _, tc := range []struct {
		name  string
		scale float64
		speed float64
	}{
		{"defaults", 1, 1},
		{"zoomed", 2.5, 1},
		{"slow", 1, 0.5},
		{"zoomed and fast", 0.4, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestController()
			c.SetTranslateSpeed(tc.speed)
			c.Zoom(tc.scale)

			marker := geometry.NewPoint2D(31, -12)
			before := c.SceneToView(marker)
			require.True(t, c.KeyPress(KeyRight))
			after := c.SceneToView(marker)

			step := KeyStep * tc.scale * tc.speed
			assert.InDelta(t, step, after.X-before.X, 1e-9)
			assert.InDelta(t, 0, after.Y-before.Y, 1e-9)
		})
	}
}

func TestArrowKeysAreSymmetric(t *testing.T) {
	c := newTestController()
	c.Zoom(3)
	for _, k := range []Key{KeyUp, KeyLeft, KeyDown, KeyRight, KeyRight, KeyLeft} {
		require.True(t, c.KeyPress(k))
	}
	assert.True(t, c.Viewport().Center().ApproxEqual(geometry.Point2D{}, 1e-9))
}

func TestRotateRoundTrip(t *testing.T) {
	c := newTestController()
	c.Rotate(12.5)
	start := c.State().Rotation

	require.True(t, c.KeyPress(KeyRotateCW))
	assert.InDelta(t, start+RotateStep, c.State().Rotation, tol)
	require.True(t, c.KeyPress(KeyRotateCCW))
	assert.InDelta(t, start, c.State().Rotation, tol)
}

func TestRotateKeepsCenter(t *testing.T) {
	c := newTestController()
	c.CenterOn(geometry.NewPoint2D(42, 42))
	c.KeyPress(KeyRotateCW)
	assert.Equal(t, geometry.NewPoint2D(42, 42), c.Viewport().Center())
	assert.True(t, c.SceneToView(geometry.NewPoint2D(42, 42)).ApproxEqual(geometry.NewPoint2D(400, 300), 1e-9))
}

func TestUnknownKeyNotHandled(t *testing.T) {
	c := newTestController()
	before := c.Viewport()
	assert.False(t, c.KeyPress(KeyUnknown))
	assert.Equal(t, before, c.Viewport())
}

func TestDoubleClickIsNoop(t *testing.T) {
	c := newTestController()
	c.Translate(geometry.NewPoint2D(5, 5))
	before := c.Viewport()
	c.DoubleClick(geometry.NewPoint2D(1, 1))
	assert.Equal(t, before, c.Viewport())
}

func TestResetRestoresTransform(t *testing.T) {
	c := newTestController()
	c.SetZoomDelta(0.3)
	c.Zoom(4)
	c.Rotate(10)
	c.Translate(geometry.NewPoint2D(3, 3))

	c.Reset()

	s := c.State()
	assert.Equal(t, 1.0, s.Scale)
	assert.Equal(t, 0.0, s.Rotation)
	assert.Equal(t, 0.3, s.ZoomDelta)
	assert.Equal(t, geometry.Point2D{}, c.Viewport().Center())
}

func TestOnChangeCallback(t *testing.T) {
	c := newTestController()
	var got []ViewState
	c.OnChange(func(s ViewState) { got = append(got, s) })

	c.ZoomIn()
	c.KeyPress(KeyRotateCW)
	c.KeyPress(KeyUnknown)

	require.Len(t, got, 2)
	assert.InDelta(t, 1.1, got[0].Scale, tol)
	assert.Equal(t, RotateStep, got[1].Rotation)
}

func TestResizeKeepsCenter(t *testing.T) {
	c := newTestController()
	c.CenterOn(geometry.NewPoint2D(7, 9))
	c.Resize(1024, 768)
	assert.True(t, c.SceneToView(geometry.NewPoint2D(7, 9)).ApproxEqual(geometry.NewPoint2D(512, 384), 1e-9))
}

func TestResizeToSameSizeIsSilent(t *testing.T) {
	c := newTestController()
	calls := 0
	c.OnChange(func(ViewState) { calls++ })

	c.Resize(800, 600)
	c.Resize(800+1e-9, 600)
	assert.Zero(t, calls)

	c.Resize(801, 600)
	assert.Equal(t, 1, calls)
}

func TestTransformMatchesSceneToView(t *testing.T) {
	c := newTestController()
	c.Zoom(1.3)
	c.Rotate(-25)
	c.Translate(geometry.NewPoint2D(-8, 14))

	tr := c.Transform()
	for _, p := range []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: -50}, {X: -3.5, Y: 2}} {
		assert.True(t, tr.Apply(p).ApproxEqual(c.SceneToView(p), 1e-9))
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "rotate-cw", KeyRotateCW.String())
	assert.Equal(t, "unknown", Key(99).String())
	assert.Equal(t, "dragging", Dragging.String())
}
