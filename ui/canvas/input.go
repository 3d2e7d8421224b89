package canvas

import (
	"imageview/internal/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

func buttonFor(b desktop.MouseButton) view.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return view.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return view.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return view.ButtonTertiary
	}
	return view.ButtonNone
}

// keyFor maps physical keys. Zoom keys arrive as runes instead, so that a
// single press is not handled twice.
func keyFor(name fyne.KeyName) view.Key {
	switch name {
	case fyne.KeyUp:
		return view.KeyUp
	case fyne.KeyDown:
		return view.KeyDown
	case fyne.KeyLeft:
		return view.KeyLeft
	case fyne.KeyRight:
		return view.KeyRight
	case fyne.KeySpace:
		return view.KeyRotateCCW
	case fyne.KeyReturn, fyne.KeyEnter:
		return view.KeyRotateCW
	}
	return view.KeyUnknown
}

func runeKey(r rune) view.Key {
	switch r {
	case '+':
		return view.KeyZoomIn
	case '-':
		return view.KeyZoomOut
	}
	return view.KeyUnknown
}
