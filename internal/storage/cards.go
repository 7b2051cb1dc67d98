package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/handsim/internal/catalog"
)

// CardRepository stores the card id to name catalog.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// SaveCards inserts or updates cards in one transaction and returns how many
// rows were written.
func (r *CardRepository) SaveCards(ctx context.Context, cards []catalog.Card) (int, error) {
	query := `
		INSERT INTO cards (id, name, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = CURRENT_TIMESTAMP
	`

	saved := 0
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare card insert: %w", err)
		}
		defer stmt.Close()

		for _, card := range cards {
			if _, err := stmt.ExecContext(ctx, card.ID, card.Name); err != nil {
				return fmt.Errorf("failed to save card %d: %w", card.ID, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// CardName looks up a card by id. It implements deckimport.Resolver.
func (r *CardRepository) CardName(ctx context.Context, id int) (string, bool, error) {
	var name string
	err := r.db.Conn().QueryRowContext(ctx, `SELECT name FROM cards WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	return name, true, nil
}

// Count returns the number of stored cards.
func (r *CardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}
