// Package client implements the wall's client core: the card reconciler that
// merges bulk loads, realtime echoes and local actions into one consistent
// render state, the drag controller, the persisted identity, and the remote
// store adapter they talk through.
package client

import "notewall/internal/card/model"

// Rendered card dimensions in canvas pixels. The clamp math assumes every
// card is this size.
const (
	CardWidth  = 320.0
	CardHeight = 200.0
)

// Bounds is the measured size of the canvas the cards live on.
type Bounds struct {
	Width  float64
	Height float64
}

// Clamp confines the top-left corner of a w×h box to the canvas, so the box
// stays fully visible. A canvas smaller than the box pins it to the origin.
func (b Bounds) Clamp(x, y, w, h float64) (float64, float64) {
	maxX := b.Width - w
	if maxX < 0 {
		maxX = 0
	}
	maxY := b.Height - h
	if maxY < 0 {
		maxY = 0
	}
	if x < 0 {
		x = 0
	} else if x > maxX {
		x = maxX
	}
	if y < 0 {
		y = 0
	} else if y > maxY {
		y = maxY
	}
	return x, y
}

// Surface is the visual projection of the reconciler's render state. Exactly
// one implementation draws real elements; tests substitute a recorder. The
// reconciler guarantees Place is called at most once per live card id and
// Remove only after a FadeOut.
type Surface interface {
	// Place creates the element for a card at its stored position.
	Place(card model.Card)
	// Move updates the element's visual transform only.
	Move(id int64, x, y float64)
	// FadeOut starts the removal transition for an element.
	FadeOut(id int64)
	// Restore reverts a removal transition after a failed delete.
	Restore(id int64)
	// Remove takes the element off the surface once its transition is done.
	Remove(id int64)
	// Clear empties the surface.
	Clear()
}

// Notifier surfaces operation failures to the user. Drag-commit failures
// never go through it.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

// StatusFunc receives connection status changes.
type StatusFunc func(status string)

const (
	StatusOnline     = "online"
	StatusOffline    = "offline"
	StatusLoadFailed = "load failed"
)
