package pg

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdash-dev/startdash/internal/domain"
)

var settingsCols = []string{
	"dashboard_title", "dashboard_bg_image", "cols_per_row", "column_width",
	"card_height", "column_bg_color", "column_bg_opacity", "card_bg_color", "card_bg_opacity",
}

func defaultSettingsRow() *sqlmock.Rows {
	def := domain.DefaultSettings()
	return sqlmock.NewRows(settingsCols).AddRow(
		def.DashboardTitle, def.DashboardBgImage, def.ColsPerRow, def.ColumnWidth,
		def.CardHeight, def.ColumnBgColor, def.ColumnBgOpacity, def.CardBgColor, def.CardBgOpacity)
}

func TestGetSettings(t *testing.T) {
	t.Run("returns singleton", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectQuery(`(?s)SELECT .+ FROM settings WHERE id = 1`).
			WillReturnRows(defaultSettingsRow())

		settings, err := storage.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, "Start Dashboard", settings.DashboardTitle)
		assert.Equal(t, 3, settings.ColsPerRow)
		assert.Equal(t, "#ffffff", settings.CardBgColor)
	})

	t.Run("uninitialized", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectQuery(`(?s)SELECT .+ FROM settings WHERE id = 1`).
			WillReturnError(sql.ErrNoRows)

		_, err := storage.GetSettings()
		assertStatusCode(t, err, 404)
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("applies only supplied keys", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM settings WHERE id = 1 FOR UPDATE`).
			WillReturnRows(defaultSettingsRow())
		mock.ExpectExec(`UPDATE settings SET`).
			WithArgs("Home", "", 5, 320, 0, "#ffffff", 1.0, "#ffffff", 1.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		title := "Home"
		cols := 5
		settings, err := storage.UpdateSettings(&domain.SettingsPatch{
			DashboardTitle: &title,
			ColsPerRow:     &cols,
		})
		require.NoError(t, err)
		assert.Equal(t, "Home", settings.DashboardTitle)
		assert.Equal(t, 5, settings.ColsPerRow)
		// untouched fields keep stored values
		assert.Equal(t, 320, settings.ColumnWidth)
		assert.Equal(t, 1.0, settings.CardBgOpacity)
	})

	t.Run("missing singleton", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM settings WHERE id = 1 FOR UPDATE`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		title := "Home"
		_, err := storage.UpdateSettings(&domain.SettingsPatch{DashboardTitle: &title})
		assertStatusCode(t, err, 404)
	})
}

func TestSetBackground_ReturnsPrevious(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT dashboard_bg_image FROM settings WHERE id = 1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"dashboard_bg_image"}).AddRow("/static/uploads/old.png"))
	mock.ExpectExec(`UPDATE settings SET dashboard_bg_image = \$1 WHERE id = 1`).
		WithArgs("/static/uploads/new.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	previous, err := storage.SetBackground("/static/uploads/new.png")
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/old.png", previous)
}

func TestClearBackground_ReturnsPrevious(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT dashboard_bg_image FROM settings WHERE id = 1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"dashboard_bg_image"}).AddRow("/static/uploads/old.png"))
	mock.ExpectExec(`UPDATE settings SET dashboard_bg_image = \$1 WHERE id = 1`).
		WithArgs("").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	previous, err := storage.ClearBackground()
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/old.png", previous)
}

func TestEnsureSettings_Idempotent(t *testing.T) {
	storage, mock := newMockStorage(t)

	def := domain.DefaultSettings()
	mock.ExpectExec(`INSERT INTO settings`).
		WithArgs(def.DashboardTitle, def.DashboardBgImage, def.ColsPerRow, def.ColumnWidth,
			def.CardHeight, def.ColumnBgColor, def.ColumnBgOpacity, def.CardBgColor, def.CardBgOpacity).
		WillReturnResult(sqlmock.NewResult(0, 0)) // conflict, row already provisioned

	assert.NoError(t, storage.EnsureSettings())
}
