// Package canvas provides the interactive image view: a fyne widget that
// pans, zooms and rotates a scene holding one picture.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"imageview/internal/view"
	"imageview/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Above this scale pixels are drawn as blocks instead of being smoothed.
const pixelatedScale = 2.0

const (
	defaultWidth  = 400
	defaultHeight = 300
)

// InteractiveView shows a picture on an unbounded scene and forwards
// pointer, wheel and keyboard input to a view.Controller. The picture's
// top-left corner sits at the scene origin.
//
// Input is handled on the event thread. The picture may be replaced from
// any goroutine; drawing works from a snapshot taken under mu.
type InteractiveView struct {
	widget.BaseWidget

	ctrl   *view.Controller
	raster *fynecanvas.Raster

	mu         sync.RWMutex
	picture    image.Image
	background color.Color
	transform  geometry.AffineTransform // scene to viewport, copied from ctrl
	scale      float64

	focused bool

	onChange       func(view.ViewState)
	onUnhandledKey func(*fyne.KeyEvent)
	log            zerolog.Logger
}

var (
	_ fyne.Widget         = (*InteractiveView)(nil)
	_ fyne.Scrollable     = (*InteractiveView)(nil)
	_ fyne.Draggable      = (*InteractiveView)(nil)
	_ fyne.Focusable      = (*InteractiveView)(nil)
	_ fyne.Tappable       = (*InteractiveView)(nil)
	_ fyne.DoubleTappable = (*InteractiveView)(nil)
	_ desktop.Mouseable   = (*InteractiveView)(nil)
	_ desktop.Hoverable   = (*InteractiveView)(nil)
	_ desktop.Cursorable  = (*InteractiveView)(nil)
)

// NewInteractiveView creates an empty view centred on the scene origin.
func NewInteractiveView() *InteractiveView {
	iv := &InteractiveView{
		ctrl:       view.NewController(defaultWidth, defaultHeight),
		background: color.Black,
		log:        zerolog.Nop(),
	}
	iv.ctrl.OnChange(iv.viewChanged)
	iv.syncTransform()
	iv.raster = fynecanvas.NewRaster(iv.draw)
	iv.ExtendBaseWidget(iv)
	return iv
}

// SetLogger sets the logger for the view and its controller.
func (iv *InteractiveView) SetLogger(l zerolog.Logger) {
	iv.log = l.With().Str("component", "canvas").Logger()
	iv.ctrl.SetLogger(l)
}

// SetBackground sets the colour drawn where the scene is empty.
func (iv *InteractiveView) SetBackground(c color.Color) {
	iv.mu.Lock()
	iv.background = c
	iv.mu.Unlock()
	iv.raster.Refresh()
}

// Controller exposes the pan/zoom model.
func (iv *InteractiveView) Controller() *view.Controller {
	return iv.ctrl
}

// State returns the current interaction state.
func (iv *InteractiveView) State() view.ViewState {
	return iv.ctrl.State()
}

// SetImage replaces the displayed picture. The view transform is kept;
// nil clears the scene.
func (iv *InteractiveView) SetImage(img image.Image) {
	iv.mu.Lock()
	iv.picture = img
	iv.mu.Unlock()
	if img != nil {
		b := img.Bounds()
		iv.log.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("image set")
	}
	iv.raster.Refresh()
}

// Image returns the displayed picture, or nil.
func (iv *InteractiveView) Image() image.Image {
	iv.mu.RLock()
	defer iv.mu.RUnlock()
	return iv.picture
}

// SetTranslateSpeed sets the pan sensitivity, nominally in [0.0, 2.0].
func (iv *InteractiveView) SetTranslateSpeed(speed float64) {
	iv.ctrl.SetTranslateSpeed(speed)
}

// TranslateSpeed returns the pan sensitivity.
func (iv *InteractiveView) TranslateSpeed() float64 {
	return iv.ctrl.TranslateSpeed()
}

// SetZoomDelta sets the zoom step, nominally in [0.0, 1.0].
func (iv *InteractiveView) SetZoomDelta(delta float64) {
	iv.ctrl.SetZoomDelta(delta)
}

// ZoomDelta returns the zoom step.
func (iv *InteractiveView) ZoomDelta() float64 {
	return iv.ctrl.ZoomDelta()
}

// ZoomIn zooms in one step around the last pointer position.
func (iv *InteractiveView) ZoomIn() { iv.ctrl.ZoomIn() }

// ZoomOut zooms out one step around the last pointer position.
func (iv *InteractiveView) ZoomOut() { iv.ctrl.ZoomOut() }

// Rotate turns the view by degrees, clockwise.
func (iv *InteractiveView) Rotate(degrees float64) { iv.ctrl.Rotate(degrees) }

// ResetView restores scale, rotation and centre.
func (iv *InteractiveView) ResetView() { iv.ctrl.Reset() }

// OnChange sets a callback for view transform changes.
func (iv *InteractiveView) OnChange(callback func(view.ViewState)) {
	iv.onChange = callback
}

// OnUnhandledKey sets a callback for keys the view does not use.
func (iv *InteractiveView) OnUnhandledKey(callback func(*fyne.KeyEvent)) {
	iv.onUnhandledKey = callback
}

func (iv *InteractiveView) viewChanged(s view.ViewState) {
	iv.syncTransform()
	iv.raster.Refresh()
	if iv.onChange != nil {
		iv.onChange(s)
	}
}

// Resize sets the widget size and the controller's viewport.
func (iv *InteractiveView) Resize(size fyne.Size) {
	iv.BaseWidget.Resize(size)
	iv.ctrl.Resize(float64(size.Width), float64(size.Height))
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

// Scrolled zooms with the mouse wheel.
func (iv *InteractiveView) Scrolled(ev *fyne.ScrollEvent) {
	iv.ctrl.Wheel(float64(ev.Scrolled.DY))
}

// MouseDown starts a pan drag and takes keyboard focus.
func (iv *InteractiveView) MouseDown(ev *desktop.MouseEvent) {
	iv.requestFocus()
	iv.ctrl.PointerPress(buttonFor(ev.Button), toPoint(ev.Position))
}

// MouseUp ends a pan drag.
func (iv *InteractiveView) MouseUp(ev *desktop.MouseEvent) {
	iv.ctrl.PointerRelease(buttonFor(ev.Button), toPoint(ev.Position))
}

// MouseIn is part of desktop.Hoverable.
func (iv *InteractiveView) MouseIn(ev *desktop.MouseEvent) {
	iv.ctrl.PointerMove(toPoint(ev.Position))
}

// MouseMoved tracks the pointer, panning while dragging.
func (iv *InteractiveView) MouseMoved(ev *desktop.MouseEvent) {
	iv.ctrl.PointerMove(toPoint(ev.Position))
}

// MouseOut is part of desktop.Hoverable.
func (iv *InteractiveView) MouseOut() {}

// Dragged pans. Drivers that report drags instead of moves end up here;
// repeated positions produce no movement.
func (iv *InteractiveView) Dragged(ev *fyne.DragEvent) {
	iv.ctrl.PointerMove(toPoint(ev.Position))
}

// DragEnd ends a pan drag started with the primary button.
func (iv *InteractiveView) DragEnd() {
	iv.ctrl.PointerRelease(view.ButtonPrimary, iv.ctrl.State().LastPointer)
}

// Tapped takes keyboard focus.
func (iv *InteractiveView) Tapped(*fyne.PointEvent) {
	iv.requestFocus()
}

// DoubleTapped is forwarded to the controller's double-click hook.
func (iv *InteractiveView) DoubleTapped(ev *fyne.PointEvent) {
	iv.ctrl.DoubleClick(toPoint(ev.Position))
}

// Cursor shows a pointing hand over the view.
func (iv *InteractiveView) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

// FocusGained is part of fyne.Focusable.
func (iv *InteractiveView) FocusGained() { iv.focused = true }

// FocusLost is part of fyne.Focusable.
func (iv *InteractiveView) FocusLost() { iv.focused = false }

// TypedKey handles navigation keys. Other keys go to OnUnhandledKey.
func (iv *InteractiveView) TypedKey(ev *fyne.KeyEvent) {
	if iv.ctrl.KeyPress(keyFor(ev.Name)) {
		return
	}
	if iv.onUnhandledKey != nil {
		iv.onUnhandledKey(ev)
	}
}

// TypedRune handles the + and - zoom keys.
func (iv *InteractiveView) TypedRune(r rune) {
	iv.ctrl.KeyPress(runeKey(r))
}

func (iv *InteractiveView) requestFocus() {
	if iv.focused {
		return
	}
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	if c := app.Driver().CanvasForObject(iv); c != nil {
		c.Focus(iv)
	}
}

// syncTransform copies the controller's transform for the render thread.
func (iv *InteractiveView) syncTransform() {
	t := iv.ctrl.Transform()
	scale := iv.ctrl.State().Scale
	iv.mu.Lock()
	iv.transform = t
	iv.scale = scale
	iv.mu.Unlock()
}

// frame is what one raster pass needs, read under a single lock.
type frame struct {
	picture    image.Image
	background color.Color
	transform  geometry.AffineTransform
	scale      float64
}

func (iv *InteractiveView) snapshot() frame {
	iv.mu.RLock()
	defer iv.mu.RUnlock()
	return frame{
		picture:    iv.picture,
		background: iv.background,
		transform:  iv.transform,
		scale:      iv.scale,
	}
}

// sceneToPixels returns the affine map from source image pixels to raster
// pixels of a w-wide raster.
func (iv *InteractiveView) sceneToPixels(f frame, w int) f64.Aff3 {
	pixScale := 1.0
	if size := iv.Size(); size.Width > 0 {
		pixScale = float64(w) / float64(size.Width)
	}
	min := f.picture.Bounds().Min
	t := geometry.Scale(pixScale, pixScale).
		Compose(f.transform).
		Compose(geometry.Translation(-float64(min.X), -float64(min.Y)))
	return f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
}

func interpolator(scale float64) xdraw.Transformer {
	if scale >= pixelatedScale {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}

// draw is the raster drawing function.
func (iv *InteractiveView) draw(w, h int) image.Image {
	f := iv.snapshot()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(f.background), image.Point{}, xdraw.Src)
	if f.picture == nil || w <= 0 || h <= 0 {
		return dst
	}

	interpolator(f.scale).Transform(dst, iv.sceneToPixels(f, w), f.picture, f.picture.Bounds(), xdraw.Over, nil)
	return dst
}

// CreateRenderer implements fyne.Widget.
func (iv *InteractiveView) CreateRenderer() fyne.WidgetRenderer {
	return &interactiveViewRenderer{view: iv}
}

type interactiveViewRenderer struct {
	view *InteractiveView
}

func (r *interactiveViewRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
	r.view.ctrl.Resize(float64(size.Width), float64(size.Height))
}

func (r *interactiveViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *interactiveViewRenderer) Refresh() {
	r.view.raster.Refresh()
}

func (r *interactiveViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster}
}

func (r *interactiveViewRenderer) Destroy() {}
