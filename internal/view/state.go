// Package view holds the toolkit-independent pan/zoom/rotate model behind the
// interactive canvas. Widgets forward pointer, wheel and key input to a
// Controller, which keeps the ViewState and the Viewport mapping between
// viewport pixels and scene coordinates.
package view

import (
	"fmt"

	"imageview/pkg/geometry"
)

const (
	DefaultScale          = 1.0
	DefaultZoomDelta      = 0.1
	DefaultTranslateSpeed = 1.0

	// KeyStep is the translation applied by an arrow key, in scene units
	// before scaling by Scale and TranslateSpeed.
	KeyStep = 2.0

	// RotateStep is the rotation applied by a rotate key, in degrees.
	RotateStep = 5.0
)

// DragState is the pointer-drag state machine.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (d DragState) String() string {
	switch d {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("DragState(%d)", int(d))
	}
}

// ViewState is the interaction state owned by a Controller.
type ViewState struct {
	// Scale is the product of every zoom factor applied since creation
	// (or since the last explicit Reset).
	Scale float64

	// ZoomDelta is the step per wheel tick or zoom key; zoom in multiplies
	// by 1+ZoomDelta and zoom out by 1-ZoomDelta.
	ZoomDelta float64

	// TranslateSpeed scales pan distances.
	TranslateSpeed float64

	// Rotation is the cumulative view rotation in degrees, clockwise.
	Rotation float64

	Drag        DragState
	LastPointer geometry.Point2D
}

// DefaultState returns the state of a freshly constructed canvas.
func DefaultState() ViewState {
	return ViewState{
		Scale:          DefaultScale,
		ZoomDelta:      DefaultZoomDelta,
		TranslateSpeed: DefaultTranslateSpeed,
		Drag:           Idle,
	}
}

// Dragging reports whether a pan drag is in progress.
func (s ViewState) Dragging() bool {
	return s.Drag == Dragging
}
