package view

// Button identifies a pointer button independently of the GUI toolkit.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonTertiary
)

// Key is a navigation command recognised by the Controller. Toolkit adapters
// map their own key codes onto these.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyZoomIn
	KeyZoomOut
	KeyRotateCCW // space
	KeyRotateCW  // enter / return
)

var keyNames = map[Key]string{
	KeyUnknown:   "unknown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyZoomIn:    "zoom-in",
	KeyZoomOut:   "zoom-out",
	KeyRotateCCW: "rotate-ccw",
	KeyRotateCW:  "rotate-cw",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return keyNames[KeyUnknown]
}
