package client

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"notewall/internal/card/model"
	"notewall/pkg/logger"
	"notewall/socket"
)

// RemoveTransition is how long a card's fade-out runs before the element
// leaves the surface.
const RemoveTransition = 300 * time.Millisecond

type cardState struct {
	card     model.Card
	deleting bool
}

// Reconciler is the single source of truth for which cards are rendered. It
// merges three event producers (the initial bulk load, realtime echoes from
// the store, and local actions) into one id-keyed state map, of which the
// Surface is a pure projection.
//
// All merges are idempotent by card id: an insert for a rendered id is
// dropped, a delete for an absent or already-fading id is dropped. That is
// what lets a local action's completion and its realtime echo race in either
// order and still converge.
type Reconciler struct {
	Store   Store
	Surface Surface
	UserID  string

	// Notify surfaces create/delete/clear failures to the user. Optional.
	Notify Notifier
	// Status receives online/offline/load-failed transitions. Optional.
	Status StatusFunc
	// Transition overrides RemoveTransition; zero or negative finalizes
	// removals synchronously, which tests rely on.
	Transition time.Duration

	mu        sync.Mutex
	cards     map[int64]*cardState
	bounds    Bounds
	actionSeq uint64
}

func NewReconciler(store Store, surface Surface, userID string) *Reconciler {
	return &Reconciler{
		Store:      store,
		Surface:    surface,
		UserID:     userID,
		Transition: RemoveTransition,
		cards:      make(map[int64]*cardState),
	}
}

// SetBounds records the measured canvas size used for random placement.
func (r *Reconciler) SetBounds(b Bounds) {
	r.mu.Lock()
	r.bounds = b
	r.mu.Unlock()
}

// Count reports how many cards are currently rendered.
func (r *Reconciler) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// Owns reports whether this client created the card, which decides whether
// the surface shows its delete affordance.
func (r *Reconciler) Owns(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.cards[id]
	return ok && st.card.OwnerID == r.UserID
}

// Start probes the store, loads the wall and opens the realtime channel. A
// failed probe reports the fixed offline status and performs no further
// operations; recovery is a restart.
func (r *Reconciler) Start(ctx context.Context) error {
	if err := r.Store.Probe(ctx); err != nil {
		logger.Sugar.Errorf("Store probe failed: %v", err)
		r.setStatus(StatusOffline)
		return err
	}
	r.setStatus(StatusOnline)

	if err := r.LoadAll(ctx); err != nil {
		return err
	}

	events, err := r.Store.Subscribe(ctx)
	if err != nil {
		logger.Sugar.Errorf("Failed to open realtime channel: %v", err)
		r.setStatus(StatusOffline)
		return err
	}
	go func() {
		for event := range events {
			r.ApplyRemote(event)
		}
	}()
	return nil
}

// LoadAll replaces the render state with the store's contents in ascending
// creation order. Failure leaves the surface empty and reports the fixed
// load-failed status; there is no automatic retry.
func (r *Reconciler) LoadAll(ctx context.Context) error {
	cards, err := r.Store.ListAll(ctx)

	r.mu.Lock()
	r.cards = make(map[int64]*cardState)
	r.mu.Unlock()
	r.Surface.Clear()

	if err != nil {
		logger.Sugar.Errorf("Failed to load cards: %v", err)
		r.setStatus(StatusLoadFailed)
		return err
	}

	for i := range cards {
		r.clampToBounds(&cards[i])
	}

	r.mu.Lock()
	for _, c := range cards {
		r.cards[c.ID] = &cardState{card: c}
	}
	r.mu.Unlock()

	for _, c := range cards {
		r.Surface.Place(c)
	}
	return nil
}

// ApplyRemote consumes one realtime echo. Safe to call with an echo of a
// local action that has already been applied.
func (r *Reconciler) ApplyRemote(event socket.WallEvent) {
	switch event.Kind {
	case socket.InsertKind:
		if event.Card == nil {
			return
		}
		c := *event.Card
		r.clampToBounds(&c)
		r.mu.Lock()
		if _, ok := r.cards[c.ID]; ok {
			// A local render beat the echo. Nothing to do.
			r.mu.Unlock()
			return
		}
		r.cards[c.ID] = &cardState{card: c}
		r.mu.Unlock()
		r.Surface.Place(c)

	case socket.DeleteKind:
		r.fadeAndRemove(event.ID)
	}
}

// CreateCard substitutes defaults for blank fields, picks a random in-bounds
// position and inserts. On success it reloads the wall: the reload, not an
// optimistic render, is what picks up the server-assigned id and timestamp.
// On failure nothing changes on the surface and the user is notified.
func (r *Reconciler) CreateCard(ctx context.Context, author, title, content string) error {
	op := atomic.AddUint64(&r.actionSeq, 1)

	req := model.CreateCardRequest{Author: author, Title: title, Content: content}
	req.ApplyDefaults()
	req.X, req.Y = r.randomPosition()

	if _, err := r.Store.Insert(ctx, req); err != nil {
		logger.Sugar.Errorf("Failed to publish card (action %d): %v", op, err)
		r.reportFailure("Publish failed", err)
		return err
	}
	return r.LoadAll(ctx)
}

// DeleteCard starts the removal transition, deletes remotely and finalizes
// after the transition. On failure the transition is reverted and the card
// stays. Calling it for an absent or already-fading card is a no-op.
func (r *Reconciler) DeleteCard(ctx context.Context, id int64) error {
	op := atomic.AddUint64(&r.actionSeq, 1)

	r.mu.Lock()
	st, ok := r.cards[id]
	if !ok || st.deleting {
		r.mu.Unlock()
		return nil
	}
	st.deleting = true
	r.mu.Unlock()

	r.Surface.FadeOut(id)

	if err := r.Store.DeleteByID(ctx, id); err != nil {
		logger.Sugar.Errorf("Failed to delete card %d (action %d): %v", id, op, err)
		r.mu.Lock()
		if st, ok := r.cards[id]; ok {
			st.deleting = false
		}
		r.mu.Unlock()
		r.Surface.Restore(id)
		r.reportFailure("Delete failed", err)
		return err
	}

	r.finalizeAfterTransition(id)
	return nil
}

// ClearAll bulk-deletes every card and empties the surface. The per-row
// delete echoes that follow find nothing left and are dropped.
func (r *Reconciler) ClearAll(ctx context.Context) error {
	if err := r.Store.DeleteAll(ctx); err != nil {
		logger.Sugar.Errorf("Failed to clear the wall: %v", err)
		r.reportFailure("Clear failed", err)
		return err
	}

	r.mu.Lock()
	r.cards = make(map[int64]*cardState)
	r.mu.Unlock()
	r.Surface.Clear()
	return nil
}

// fadeAndRemove is the remote delete path. The deleting flag keeps a local
// delete and its echo from playing the transition twice.
func (r *Reconciler) fadeAndRemove(id int64) {
	r.mu.Lock()
	st, ok := r.cards[id]
	if !ok || st.deleting {
		r.mu.Unlock()
		return
	}
	st.deleting = true
	r.mu.Unlock()

	r.Surface.FadeOut(id)
	r.finalizeAfterTransition(id)
}

func (r *Reconciler) finalizeAfterTransition(id int64) {
	finish := func() {
		r.mu.Lock()
		delete(r.cards, id)
		r.mu.Unlock()
		r.Surface.Remove(id)
	}
	if r.Transition <= 0 {
		finish()
		return
	}
	time.AfterFunc(r.Transition, finish)
}

// clampToBounds keeps rendered positions inside the canvas even when a row
// was stored against a larger canvas. Skipped until bounds are measured.
func (r *Reconciler) clampToBounds(c *model.Card) {
	r.mu.Lock()
	b := r.bounds
	r.mu.Unlock()
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	c.X, c.Y = b.Clamp(c.X, c.Y, CardWidth, CardHeight)
}

func (r *Reconciler) randomPosition() (float64, float64) {
	r.mu.Lock()
	b := r.bounds
	r.mu.Unlock()

	maxX := b.Width - CardWidth
	if maxX < 0 {
		maxX = 0
	}
	maxY := b.Height - CardHeight
	if maxY < 0 {
		maxY = 0
	}
	return rand.Float64() * maxX, rand.Float64() * maxY
}

func (r *Reconciler) reportFailure(action string, err error) {
	if r.Notify == nil {
		return
	}
	message := strings.TrimSpace(err.Error())
	if message == "" {
		message = "please try again"
	}
	r.Notify.Notify(action + ": " + message)
}

func (r *Reconciler) setStatus(status string) {
	if r.Status != nil {
		r.Status(status)
	}
}
