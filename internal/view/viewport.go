package view

import (
	"imageview/pkg/geometry"
)

// Viewport maps between viewport pixels and scene coordinates. The scene
// point Center is drawn at the middle of the viewport; around it the scene
// is scaled by scale and rotated by rotation degrees.
type Viewport struct {
	size     geometry.Size
	center   geometry.Point2D
	scale    float64
	rotation float64
}

// NewViewport returns an unscaled, unrotated viewport of the given pixel
// size centred on the scene origin.
func NewViewport(width, height float64) Viewport {
	return Viewport{
		size:  geometry.NewSize(width, height),
		scale: 1,
	}
}

// Size returns the viewport size in pixels.
func (v Viewport) Size() geometry.Size { return v.size }

// Center returns the scene point shown at the middle of the viewport.
func (v Viewport) Center() geometry.Point2D { return v.center }

// Scale returns the current scale of the view transform.
func (v Viewport) Scale() float64 { return v.scale }

// Rotation returns the current rotation of the view transform in degrees.
func (v Viewport) Rotation() float64 { return v.rotation }

// Resize changes the pixel size. The scene point at the centre is kept.
func (v *Viewport) Resize(width, height float64) {
	v.size = geometry.NewSize(width, height)
}

// CenterOn makes p the scene point shown at the middle of the viewport.
func (v *Viewport) CenterOn(p geometry.Point2D) {
	v.center = p
}

// ScaleBy multiplies the view scale by factor, anchored on the viewport
// centre.
func (v *Viewport) ScaleBy(factor float64) {
	v.scale *= factor
}

// Rotate turns the view by degrees (clockwise) about the viewport centre.
func (v *Viewport) Rotate(degrees float64) {
	v.rotation += degrees
}

// linear is the scene to viewport transform without translation.
func (v Viewport) linear() geometry.AffineTransform {
	return geometry.Scale(v.scale, v.scale).Compose(geometry.RotationDegrees(v.rotation))
}

// Transform returns the full scene to viewport transform.
func (v Viewport) Transform() geometry.AffineTransform {
	mid := v.size.Center()
	return geometry.Translation(mid.X, mid.Y).
		Compose(v.linear()).
		Compose(geometry.Translation(-v.center.X, -v.center.Y))
}

// SceneToView maps a scene point to viewport pixels.
func (v Viewport) SceneToView(p geometry.Point2D) geometry.Point2D {
	return v.size.Center().Add(v.linear().ApplyVector(p.Sub(v.center)))
}

// ViewToScene maps viewport pixels to a scene point. A degenerate transform
// (zero scale) maps every pixel to Center.
func (v Viewport) ViewToScene(p geometry.Point2D) geometry.Point2D {
	inv, ok := v.linear().Inverse()
	if !ok {
		return v.center
	}
	return v.center.Add(inv.ApplyVector(p.Sub(v.size.Center())))
}
