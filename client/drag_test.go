package client

import (
	"errors"
	"testing"
	"time"

	"notewall/internal/card/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCommit(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("position commit never reached the store")
	}
}

// Drag to (50, 50) on a 1000×800 canvas: in bounds, so the release commits
// exactly that position.
func TestDragCommitsFinalPosition(t *testing.T) {
	store := &fakeStore{updatedCh: make(chan struct{}, 1)}
	surface := newFakeSurface()
	surface.Place(seedCard(1, "user-1"))
	d := NewDragController(store, surface)

	bounds := Bounds{Width: 1000, Height: 800}
	require.True(t, d.Start(1, 400, 300, 360, 250, bounds))

	// pointer - offset = (400,300) - (40,50) shifted to land on (50,50)
	d.Move(90, 100)
	d.End()

	waitForCommit(t, store.updatedCh)
	require.Len(t, store.updates, 1)
	assert.Equal(t, model.MoveCardRequest{ID: 1, X: 50, Y: 50}, store.updates[0])
	assert.False(t, d.Dragging())
}

func TestDragDoesNotJumpOnStart(t *testing.T) {
	store := &fakeStore{}
	surface := newFakeSurface()
	card := seedCard(1, "user-1")
	card.X, card.Y = 360, 250
	surface.Place(card)
	d := NewDragController(store, surface)

	require.True(t, d.Start(1, 400, 300, 360, 250, Bounds{Width: 1000, Height: 800}))
	// The pointer has not moved yet, so neither should the card.
	d.Move(400, 300)

	surface.mu.Lock()
	got := surface.rendered[1]
	surface.mu.Unlock()
	assert.Equal(t, 360.0, got.X)
	assert.Equal(t, 250.0, got.Y)
}

func TestDragClampsToCanvas(t *testing.T) {
	store := &fakeStore{updatedCh: make(chan struct{}, 1)}
	surface := newFakeSurface()
	surface.Place(seedCard(1, "user-1"))
	d := NewDragController(store, surface)

	bounds := Bounds{Width: 1000, Height: 800}
	require.True(t, d.Start(1, 0, 0, 0, 0, bounds))

	d.Move(-500, -500)
	surface.mu.Lock()
	got := surface.rendered[1]
	surface.mu.Unlock()
	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 0.0, got.Y)

	d.Move(5000, 5000)
	d.End()

	waitForCommit(t, store.updatedCh)
	require.Len(t, store.updates, 1)
	assert.Equal(t, 1000.0-CardWidth, store.updates[0].X)
	assert.Equal(t, 800.0-CardHeight, store.updates[0].Y)
}

func TestOnlyOneDragAtATime(t *testing.T) {
	d := NewDragController(&fakeStore{}, newFakeSurface())
	bounds := Bounds{Width: 1000, Height: 800}

	require.True(t, d.Start(1, 0, 0, 0, 0, bounds))
	assert.False(t, d.Start(2, 0, 0, 0, 0, bounds), "second pointer-down while dragging is ignored")

	d.End()
	assert.True(t, d.Start(2, 0, 0, 0, 0, bounds))
}

func TestMoveAndEndWithoutDragAreNoOps(t *testing.T) {
	store := &fakeStore{}
	surface := newFakeSurface()
	d := NewDragController(store, surface)

	d.Move(100, 100)
	d.End()

	assert.Empty(t, store.updates)
	assert.Zero(t, surface.renderedCount())
}

// A failed commit is logged only: no revert, no notification, and the next
// drag proceeds normally.
func TestDragCommitFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{updateErr: errors.New("timeout"), updatedCh: make(chan struct{}, 1)}
	surface := newFakeSurface()
	card := seedCard(1, "user-1")
	surface.Place(card)
	d := NewDragController(store, surface)

	require.True(t, d.Start(1, 0, 0, 10, 20, Bounds{Width: 1000, Height: 800}))
	d.Move(30, 40)
	d.Cancel()

	waitForCommit(t, store.updatedCh)
	assert.Equal(t, 1, surface.renderedCount(), "visual position is kept, never reverted")
	assert.False(t, d.Dragging())
}
