package service

import (
	"errors"

	"notewall/internal/card/model"
	"notewall/internal/card/repository"
	"notewall/socket"
)

type CardService struct {
	Repo *repository.CardRepository
	Hub  *socket.Hub
}

func NewCardService(repo *repository.CardRepository, hub *socket.Hub) *CardService {
	return &CardService{Repo: repo, Hub: hub}
}

func (s *CardService) ListCards() ([]model.Card, error) {
	return s.Repo.List()
}

// CreateCard stores a card owned by userID and echoes it to every subscriber.
// Blank fields are replaced with the fixed defaults here as well as in the
// client, so raw API callers cannot persist empty text.
func (s *CardService) CreateCard(userID string, req model.CreateCardRequest) (model.Card, error) {
	req.ApplyDefaults()

	card, err := s.Repo.Insert(model.Card{
		OwnerID: userID,
		Author:  req.Author,
		Title:   req.Title,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
	})
	if err != nil {
		return model.Card{}, err
	}

	s.Hub.Broadcast <- socket.WallEvent{Kind: socket.InsertKind, Card: &card}
	return card, nil
}

// MoveCard commits a drag-release position. No realtime event is emitted;
// other sessions see the new position on their next full load.
func (s *CardService) MoveCard(req model.MoveCardRequest) error {
	rowsAffected, err := s.Repo.UpdatePosition(req.ID, req.X, req.Y)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("card not found")
	}
	return nil
}

func (s *CardService) DeleteCard(id int64) error {
	rowsAffected, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("card not found")
	}

	s.Hub.Broadcast <- socket.WallEvent{Kind: socket.DeleteKind, ID: id}
	return nil
}

// ClearWall deletes every card and echoes one delete event per removed row,
// matching the per-row notifications a range delete produces.
func (s *CardService) ClearWall() error {
	ids, err := s.Repo.DeleteAll()
	if err != nil {
		return err
	}

	for _, id := range ids {
		s.Hub.Broadcast <- socket.WallEvent{Kind: socket.DeleteKind, ID: id}
	}
	return nil
}

// Healthy reports whether the backing store is reachable.
func (s *CardService) Healthy() error {
	return s.Repo.Ping()
}
