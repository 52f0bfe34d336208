package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/startdash-dev/startdash/internal/domain"
	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

const settingsColumns = `dashboard_title, dashboard_bg_image, cols_per_row, column_width,
		card_height, column_bg_color, column_bg_opacity, card_bg_color, card_bg_opacity`

func scanSettings(row *sql.Row) (*domain.Settings, error) {
	var s domain.Settings
	err := row.Scan(&s.DashboardTitle, &s.DashboardBgImage, &s.ColsPerRow, &s.ColumnWidth,
		&s.CardHeight, &s.ColumnBgColor, &s.ColumnBgOpacity, &s.CardBgColor, &s.CardBgOpacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("settings")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSettings returns the singleton record. A 404 can only happen before
// provisioning has run.
func (s *Storage) GetSettings() (*domain.Settings, error) {
	return scanSettings(s.db.QueryRow("SELECT " + settingsColumns + " FROM settings WHERE id = 1"))
}

// UpdateSettings applies only the supplied keys of the patch, in one
// transaction against the locked singleton row.
func (s *Storage) UpdateSettings(patch *domain.SettingsPatch) (*domain.Settings, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := scanSettings(tx.QueryRow("SELECT " + settingsColumns + " FROM settings WHERE id = 1 FOR UPDATE"))
	if err != nil {
		return nil, err
	}

	if patch.DashboardTitle != nil {
		current.DashboardTitle = *patch.DashboardTitle
	}
	if patch.DashboardBgImage != nil {
		current.DashboardBgImage = *patch.DashboardBgImage
	}
	if patch.ColsPerRow != nil {
		current.ColsPerRow = *patch.ColsPerRow
	}
	if patch.ColumnWidth != nil {
		current.ColumnWidth = *patch.ColumnWidth
	}
	if patch.CardHeight != nil {
		current.CardHeight = *patch.CardHeight
	}
	if patch.ColumnBgColor != nil {
		current.ColumnBgColor = *patch.ColumnBgColor
	}
	if patch.ColumnBgOpacity != nil {
		current.ColumnBgOpacity = *patch.ColumnBgOpacity
	}
	if patch.CardBgColor != nil {
		current.CardBgColor = *patch.CardBgColor
	}
	if patch.CardBgOpacity != nil {
		current.CardBgOpacity = *patch.CardBgOpacity
	}

	_, err = tx.Exec(`
		UPDATE settings SET dashboard_title = $1, dashboard_bg_image = $2, cols_per_row = $3,
			column_width = $4, card_height = $5, column_bg_color = $6, column_bg_opacity = $7,
			card_bg_color = $8, card_bg_opacity = $9
		WHERE id = 1`,
		current.DashboardTitle, current.DashboardBgImage, current.ColsPerRow, current.ColumnWidth,
		current.CardHeight, current.ColumnBgColor, current.ColumnBgOpacity, current.CardBgColor,
		current.CardBgOpacity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return current, nil
}

// SetBackground overwrites the background pointer and returns the previous
// value so the caller can reclaim the old file.
func (s *Storage) SetBackground(url string) (string, error) {
	return s.swapBackground(url)
}

// ClearBackground empties the background pointer, returning the previous value.
func (s *Storage) ClearBackground() (string, error) {
	return s.swapBackground("")
}

func (s *Storage) swapBackground(url string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRow("SELECT dashboard_bg_image FROM settings WHERE id = 1 FOR UPDATE").Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NotFound("settings")
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec("UPDATE settings SET dashboard_bg_image = $1 WHERE id = 1", url); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return previous, nil
}
