package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/startdash-dev/startdash/internal/domain"
	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

// GetState returns all columns ordered by position with their cards ordered
// by position. Ties are broken by id (insertion order).
func (s *Storage) GetState() (*domain.Board, error) {
	rows, err := s.db.Query("SELECT id, name, position FROM columns ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	board := &domain.Board{Columns: []domain.Column{}}
	index := make(map[domain.ColumnId]int)
	for rows.Next() {
		var col domain.Column
		if err := rows.Scan(&col.Id, &col.Name, &col.Position); err != nil {
			return nil, err
		}
		col.Cards = []domain.Card{}
		index[col.Id] = len(board.Columns)
		board.Columns = append(board.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cardRows, err := s.db.Query(
		"SELECT id, column_id, title, link, description, icon, position FROM cards ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer cardRows.Close()

	for cardRows.Next() {
		var card domain.Card
		if err := cardRows.Scan(&card.Id, &card.ColumnId, &card.Title, &card.Link, &card.Description, &card.Icon, &card.Position); err != nil {
			return nil, err
		}
		if i, ok := index[card.ColumnId]; ok {
			board.Columns[i].Cards = append(board.Columns[i].Cards, card)
		}
	}
	if err := cardRows.Err(); err != nil {
		return nil, err
	}
	return board, nil
}

// AddCard appends a card at the end of the target column. The column row is
// locked so concurrent appends never hand out the same position.
func (s *Storage) AddCard(columnId domain.ColumnId, title, link, description, icon string) (*domain.Card, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockColumn(tx, columnId); err != nil {
		return nil, err
	}

	card := domain.Card{
		ColumnId:    columnId,
		Title:       title,
		Link:        link,
		Description: description,
		Icon:        icon,
	}
	err = tx.QueryRow(`
		INSERT INTO cards (column_id, title, link, description, icon, position)
		VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $1))
		RETURNING id, position`,
		columnId, title, link, description, icon).Scan(&card.Id, &card.Position)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &card, nil
}

// UpdateCard applies a partial update. Supplying a different column_id moves
// the card: it is appended at the end of the target column; positions in the
// source column are left untouched.
func (s *Storage) UpdateCard(cardId domain.CardId, patch domain.CardPatch) (*domain.Card, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var card domain.Card
	err = tx.QueryRow(
		"SELECT id, column_id, title, link, description, icon, position FROM cards WHERE id = $1 FOR UPDATE",
		cardId).Scan(&card.Id, &card.ColumnId, &card.Title, &card.Link, &card.Description, &card.Icon, &card.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("card")
	}
	if err != nil {
		return nil, err
	}

	if patch.ColumnId != nil && *patch.ColumnId != card.ColumnId {
		target := *patch.ColumnId
		if err := lockColumn(tx, target); err != nil {
			var statusErr *apperrors.ErrorWithStatusCode
			if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
				return nil, apperrors.NotFound("target column")
			}
			return nil, err
		}
		err = tx.QueryRow(
			"SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $1",
			target).Scan(&card.Position)
		if err != nil {
			return nil, err
		}
		card.ColumnId = target
	}

	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Link != nil {
		card.Link = *patch.Link
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	if patch.Icon != nil {
		card.Icon = *patch.Icon
	}

	_, err = tx.Exec(
		"UPDATE cards SET column_id = $1, title = $2, link = $3, description = $4, icon = $5, position = $6 WHERE id = $7",
		card.ColumnId, card.Title, card.Link, card.Description, card.Icon, card.Position, card.Id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &card, nil
}

// DeleteCard is an idempotent no-op when the card does not exist. Remaining
// siblings are not renumbered, gaps in position are permitted after deletion.
func (s *Storage) DeleteCard(cardId domain.CardId) error {
	_, err := s.db.Exec("DELETE FROM cards WHERE id = $1", cardId)
	return err
}

// AddColumn appends a column at the end of the board.
func (s *Storage) AddColumn(name string) (*domain.Column, error) {
	col := domain.Column{Name: name, Cards: []domain.Card{}}
	err := s.db.QueryRow(`
		INSERT INTO columns (name, position)
		VALUES ($1, (SELECT COALESCE(MAX(position) + 1, 0) FROM columns))
		RETURNING id, position`,
		name).Scan(&col.Id, &col.Position)
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (s *Storage) UpdateColumn(columnId domain.ColumnId, name string) (*domain.Column, error) {
	col := domain.Column{Cards: []domain.Card{}}
	err := s.db.QueryRow(
		"UPDATE columns SET name = $1 WHERE id = $2 RETURNING id, name, position",
		name, columnId).Scan(&col.Id, &col.Name, &col.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("column")
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// DeleteColumn removes the column and, by ownership, all its cards. The card
// delete is explicit even though the schema also cascades.
func (s *Storage) DeleteColumn(columnId domain.ColumnId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cards WHERE column_id = $1", columnId); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM columns WHERE id = $1", columnId); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReorderCards assigns position = index-in-list to every card of the column,
// all-or-nothing. The supplied id set must equal the column's current card
// set exactly: a reorder can never drop a card, duplicate a position or
// capture a card from another column.
func (s *Storage) ReorderCards(columnId domain.ColumnId, order []domain.CardId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockColumn(tx, columnId); err != nil {
		return err
	}

	existing, err := lockedIds(tx, "SELECT id FROM cards WHERE column_id = $1 ORDER BY id FOR UPDATE", columnId)
	if err != nil {
		return err
	}

	if err := checkOrder(order, existing, "order must contain all cards in this column exactly once"); err != nil {
		return err
	}

	for pos, id := range order {
		if _, err := tx.Exec("UPDATE cards SET position = $1 WHERE id = $2", pos, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReorderColumns is the board-wide counterpart of ReorderCards.
func (s *Storage) ReorderColumns(order []domain.ColumnId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := lockedIds(tx, "SELECT id FROM columns ORDER BY id FOR UPDATE")
	if err != nil {
		return err
	}

	if err := checkOrder(order, existing, "order must contain all columns exactly once"); err != nil {
		return err
	}

	for pos, id := range order {
		if _, err := tx.Exec("UPDATE columns SET position = $1 WHERE id = $2", pos, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockColumn takes a row lock on the column, serializing position changes
// within it. Returns a 404 error if the column does not exist.
func lockColumn(tx *sql.Tx, columnId domain.ColumnId) error {
	var one int
	err := tx.QueryRow("SELECT 1 FROM columns WHERE id = $1 FOR UPDATE", columnId).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("column")
	}
	return err
}

func lockedIds(tx *sql.Tx, query string, args ...any) (map[int64]struct{}, error) {
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// checkOrder enforces strict set equality between the supplied order and the
// current scope members.
func checkOrder(order []int64, existing map[int64]struct{}, mismatchMessage string) error {
	seen := make(map[int64]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup {
			return apperrors.OrderMismatch("order must not contain duplicate ids")
		}
		seen[id] = struct{}{}
	}
	if len(seen) != len(existing) {
		return apperrors.OrderMismatch(mismatchMessage)
	}
	for id := range seen {
		if _, ok := existing[id]; !ok {
			return apperrors.OrderMismatch(mismatchMessage)
		}
	}
	return nil
}
