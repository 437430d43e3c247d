package client

import (
	"context"
	"sync"

	"notewall/pkg/logger"
)

// DragController turns pointer input into a card's on-screen position. While
// a drag is live it touches only the Surface; the reconciler's canonical
// state never changes mid-drag. On release the final clamped position is
// committed to the store fire-and-forget.
type DragController struct {
	Store   Store
	Surface Surface

	mu     sync.Mutex
	active *dragState
}

type dragState struct {
	cardID           int64
	offsetX, offsetY float64
	x, y             float64
	bounds           Bounds
}

func NewDragController(store Store, surface Surface) *DragController {
	return &DragController{Store: store, Surface: surface}
}

// Start begins dragging cardID. cardX/cardY is the card's current rendered
// position; keeping the pointer-to-card offset fixed prevents the card from
// jumping under the pointer on the first move. bounds is the canvas measured
// at drag start, so the clamp adapts to resizes between drags. Returns false
// if another drag is already live; one card per pointer. Callers must not
// start a drag from the delete affordance.
func (d *DragController) Start(cardID int64, pointerX, pointerY, cardX, cardY float64, bounds Bounds) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		return false
	}
	d.active = &dragState{
		cardID:  cardID,
		offsetX: pointerX - cardX,
		offsetY: pointerY - cardY,
		x:       cardX,
		y:       cardY,
		bounds:  bounds,
	}
	return true
}

// Move recomputes the candidate position from the pointer, clamps it to the
// canvas and applies it visually. Purely local and synchronous; no network.
func (d *DragController) Move(pointerX, pointerY float64) {
	d.mu.Lock()
	st := d.active
	if st == nil {
		d.mu.Unlock()
		return
	}
	st.x, st.y = st.bounds.Clamp(pointerX-st.offsetX, pointerY-st.offsetY, CardWidth, CardHeight)
	id, x, y := st.cardID, st.x, st.y
	d.mu.Unlock()

	d.Surface.Move(id, x, y)
}

// End releases the drag and commits the final clamped position. The commit
// is fire-and-forget: a failure is logged, never surfaced, and the screen
// keeps the dragged position until the next full load.
func (d *DragController) End() {
	d.mu.Lock()
	st := d.active
	d.active = nil
	d.mu.Unlock()
	if st == nil {
		return
	}

	go func() {
		if err := d.Store.UpdatePosition(context.Background(), st.cardID, st.x, st.y); err != nil {
			logger.Sugar.Errorf("Failed to commit position for card %d: %v", st.cardID, err)
		}
	}()
}

// Cancel ends the drag the same way a release does; the last clamped
// position is still committed.
func (d *DragController) Cancel() {
	d.End()
}

// Dragging reports whether a drag is currently live.
func (d *DragController) Dragging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active != nil
}
