package view

import (
	"imageview/pkg/geometry"

	"github.com/rs/zerolog"
)

// panButton is the pointer button that starts a pan drag.
const panButton = ButtonPrimary

// Viewport sizes closer than this are treated as unchanged.
const resizeTolerance = 1e-6

// Controller turns pointer, wheel and key input into updates of a ViewState
// and its Viewport. It is not safe for concurrent use; all calls are
// expected from the UI event thread.
type Controller struct {
	state    ViewState
	viewport Viewport

	onChange func(ViewState)
	log      zerolog.Logger
}

// NewController creates a controller with default state for a viewport of
// the given pixel size, centred on the scene origin.
func NewController(width, height float64) *Controller {
	return &Controller{
		state:    DefaultState(),
		viewport: NewViewport(width, height),
		log:      zerolog.Nop(),
	}
}

// SetLogger sets the logger used for interaction tracing.
func (c *Controller) SetLogger(l zerolog.Logger) {
	c.log = l.With().Str("component", "view").Logger()
}

// OnChange registers a callback invoked after every change to the view
// transform.
func (c *Controller) OnChange(callback func(ViewState)) {
	c.onChange = callback
}

// State returns a copy of the current interaction state.
func (c *Controller) State() ViewState { return c.state }

// Viewport returns a copy of the current viewport.
func (c *Controller) Viewport() Viewport { return c.viewport }

// Transform returns the scene to viewport transform.
func (c *Controller) Transform() geometry.AffineTransform {
	return c.viewport.Transform()
}

// SceneToView maps a scene point to viewport pixels.
func (c *Controller) SceneToView(p geometry.Point2D) geometry.Point2D {
	return c.viewport.SceneToView(p)
}

// ViewToScene maps viewport pixels to a scene point.
func (c *Controller) ViewToScene(p geometry.Point2D) geometry.Point2D {
	return c.viewport.ViewToScene(p)
}

// SetTranslateSpeed sets the pan sensitivity. Values should lie in
// [0.0, 2.0]; debug builds panic otherwise.
func (c *Controller) SetTranslateSpeed(speed float64) {
	assertRange("view.SetTranslateSpeed", speed, 0, 2)
	c.state.TranslateSpeed = speed
}

// TranslateSpeed returns the pan sensitivity.
func (c *Controller) TranslateSpeed() float64 { return c.state.TranslateSpeed }

// SetZoomDelta sets the zoom step. Values should lie in [0.0, 1.0]; debug
// builds panic otherwise.
func (c *Controller) SetZoomDelta(delta float64) {
	assertRange("view.SetZoomDelta", delta, 0, 1)
	c.state.ZoomDelta = delta
}

// ZoomDelta returns the zoom step.
func (c *Controller) ZoomDelta() float64 { return c.state.ZoomDelta }

// Resize updates the viewport pixel size.
func (c *Controller) Resize(width, height float64) {
	size := c.viewport.Size()
	if geometry.NewPoint2D(width, height).ApproxEqual(geometry.NewPoint2D(size.Width, size.Height), resizeTolerance) {
		return
	}
	c.viewport.Resize(width, height)
	c.changed()
}

// CenterOn shows scene point p at the middle of the viewport.
func (c *Controller) CenterOn(p geometry.Point2D) {
	c.viewport.CenterOn(p)
	c.changed()
}

// Reset restores the default scale and rotation and centres on the scene
// origin. Zoom step and pan speed are kept.
func (c *Controller) Reset() {
	size := c.viewport.Size()
	c.viewport = NewViewport(size.Width, size.Height)
	c.state.Scale = DefaultScale
	c.state.Rotation = 0
	c.changed()
}

// PointerPress starts a pan drag if b is the pan button.
func (c *Controller) PointerPress(b Button, p geometry.Point2D) {
	if b != panButton {
		return
	}
	c.state.Drag = Dragging
	c.state.LastPointer = p
	c.log.Debug().Float64("x", p.X).Float64("y", p.Y).Msg("pointer press")
}

// PointerMove pans by the pointer movement while dragging. The last pointer
// position is always updated so wheel zoom can anchor on it.
func (c *Controller) PointerMove(p geometry.Point2D) {
	if c.state.Drag == Dragging {
		delta := c.viewport.ViewToScene(p).Sub(c.viewport.ViewToScene(c.state.LastPointer))
		c.Translate(delta)
	}
	c.state.LastPointer = p
}

// PointerRelease ends a pan drag if b is the pan button.
func (c *Controller) PointerRelease(b Button, p geometry.Point2D) {
	if b != panButton {
		return
	}
	c.state.Drag = Idle
	c.log.Debug().Float64("x", p.X).Float64("y", p.Y).Msg("pointer release")
}

// Wheel zooms in for positive dy and out for negative dy, anchored on the
// last known pointer position. A zero dy is ignored.
func (c *Controller) Wheel(dy float64) {
	switch {
	case dy > 0:
		c.ZoomIn()
	case dy < 0:
		c.ZoomOut()
	}
}

// KeyPress applies the navigation bound to k. It returns false for keys the
// controller does not handle, so the caller can pass them on.
func (c *Controller) KeyPress(k Key) bool {
	switch k {
	case KeyUp:
		c.Translate(geometry.NewPoint2D(0, -KeyStep))
	case KeyDown:
		c.Translate(geometry.NewPoint2D(0, KeyStep))
	case KeyLeft:
		c.Translate(geometry.NewPoint2D(-KeyStep, 0))
	case KeyRight:
		c.Translate(geometry.NewPoint2D(KeyStep, 0))
	case KeyZoomIn:
		c.ZoomIn()
	case KeyZoomOut:
		c.ZoomOut()
	case KeyRotateCCW:
		c.Rotate(-RotateStep)
	case KeyRotateCW:
		c.Rotate(RotateStep)
	default:
		return false
	}
	return true
}

// DoubleClick is a hook for double clicks. It does nothing.
func (c *Controller) DoubleClick(geometry.Point2D) {}

// ZoomIn zooms by 1+ZoomDelta.
func (c *Controller) ZoomIn() {
	c.Zoom(1 + c.state.ZoomDelta)
}

// ZoomOut zooms by 1-ZoomDelta.
func (c *Controller) ZoomOut() {
	c.Zoom(1 - c.state.ZoomDelta)
}

// Zoom multiplies the scale by factor while keeping the scene point under
// the last pointer position at the same viewport pixel.
func (c *Controller) Zoom(factor float64) {
	c.state.Scale *= factor

	anchor := c.viewport.ViewToScene(c.state.LastPointer)
	c.viewport.ScaleBy(factor)
	drift := c.viewport.ViewToScene(c.state.LastPointer).Sub(anchor)
	c.viewport.CenterOn(c.viewport.Center().Sub(drift))

	c.log.Debug().Float64("factor", factor).Float64("scale", c.state.Scale).Msg("zoom")
	c.changed()
}

// Translate pans the view by delta scene units, scaled by the current
// Scale and TranslateSpeed.
func (c *Controller) Translate(delta geometry.Point2D) {
	pixels := delta.Scale(c.state.Scale * c.state.TranslateSpeed)
	mid := c.viewport.Size().Center()
	c.viewport.CenterOn(c.viewport.ViewToScene(mid.Sub(pixels)))
	c.changed()
}

// Rotate turns the view by degrees about the viewport centre; positive is
// clockwise.
func (c *Controller) Rotate(degrees float64) {
	c.viewport.Rotate(degrees)
	c.state.Rotation = c.viewport.Rotation()
	c.log.Debug().Float64("rotation", c.state.Rotation).Msg("rotate")
	c.changed()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.state)
	}
}
