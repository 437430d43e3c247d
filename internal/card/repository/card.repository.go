package repository

import (
	"database/sql"

	"notewall/internal/card/model"
	"notewall/pkg/logger"
)

type CardRepository struct {
	DB *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{DB: db}
}

// List returns every card ordered by creation time ascending. This ordering
// defines the wall's render order on load.
func (r *CardRepository) List() ([]model.Card, error) {
	rows, err := r.DB.Query(`SELECT id, owner_id, author, title, content, x, y, created_at FROM cards ORDER BY created_at ASC`)
	if err != nil {
		logger.Sugar.Errorf("Failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Author, &c.Title, &c.Content, &c.X, &c.Y, &c.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Insert stores a new card and fills in the server-assigned id and timestamp.
func (r *CardRepository) Insert(c model.Card) (model.Card, error) {
	err := r.DB.QueryRow(`INSERT INTO cards (owner_id, author, title, content, x, y, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		c.OwnerID, c.Author, c.Title, c.Content, c.X, c.Y,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert card: %v", err)
	}
	return c, err
}

// UpdatePosition is a field-level update of x/y only. Returns rows affected so
// the service can distinguish a missing card from a successful move.
func (r *CardRepository) UpdatePosition(id int64, x, y float64) (int64, error) {
	result, err := r.DB.Exec(`UPDATE cards SET x = $1, y = $2 WHERE id = $3`, x, y, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to update position for card %d: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CardRepository) Delete(id int64) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete card %d: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteAll removes every card and returns the deleted ids so the caller can
// emit one delete event per row. The id > 0 predicate matches the range
// delete the wall has always used; ids are BIGSERIAL so nothing is left out.
func (r *CardRepository) DeleteAll() ([]int64, error) {
	rows, err := r.DB.Query(`DELETE FROM cards WHERE id > 0 RETURNING id`)
	if err != nil {
		logger.Sugar.Errorf("Failed to clear cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ping reports whether the database is reachable. Used by the health probe.
func (r *CardRepository) Ping() error {
	return r.DB.Ping()
}
