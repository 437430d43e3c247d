package client

import (
	"fmt"
	"strings"
	"sync"

	"notewall/internal/card/model"
	"notewall/pkg/sanitize"
)

// HTMLSurface is the concrete projection of the render state: it keeps the
// rendered cards and emits the wall's markup. Author, title and content are
// HTML-escaped on the way in; the delete affordance appears only on cards
// this client owns.
type HTMLSurface struct {
	userID string

	mu     sync.Mutex
	cards  map[int64]model.Card
	order  []int64
	fading map[int64]bool
}

func NewHTMLSurface(userID string) *HTMLSurface {
	return &HTMLSurface{
		userID: userID,
		cards:  make(map[int64]model.Card),
		fading: make(map[int64]bool),
	}
}

func (s *HTMLSurface) Place(card model.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.ID]; !ok {
		s.order = append(s.order, card.ID)
	}
	s.cards[card.ID] = card
}

func (s *HTMLSurface) Move(id int64, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.X, c.Y = x, y
		s.cards[id] = c
	}
}

func (s *HTMLSurface) FadeOut(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fading[id] = true
}

func (s *HTMLSurface) Restore(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fading, id)
}

func (s *HTMLSurface) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, id)
	delete(s.fading, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *HTMLSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = make(map[int64]model.Card)
	s.fading = make(map[int64]bool)
	s.order = nil
}

// HTML renders every card in placement order.
func (s *HTMLSurface) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, id := range s.order {
		card, ok := s.cards[id]
		if !ok {
			continue
		}
		class := "card"
		if s.fading[id] {
			class = "card deleting"
		}
		fmt.Fprintf(&b, `<div class="%s" id="card-%d" style="transform: translate3d(%gpx, %gpx, 0)">`,
			class, card.ID, card.X, card.Y)
		fmt.Fprintf(&b, `<div class="card-header"><div class="card-title">%s</div>`, sanitize.Escape(card.Title))
		if card.OwnerID == s.userID {
			b.WriteString(`<div class="close-btn">&times;</div>`)
		}
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<div class="card-content"><strong>%s:</strong><br>%s</div>`,
			sanitize.Escape(card.Author), sanitize.Escape(card.Content))
		b.WriteString(`</div>`)
	}
	return b.String()
}
