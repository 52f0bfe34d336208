// Package pg implements the board and settings repositories on PostgreSQL.
package pg

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/startdash-dev/startdash/internal/config"
	"github.com/startdash-dev/startdash/internal/domain"
	"github.com/startdash-dev/startdash/internal/logger"
	"github.com/startdash-dev/startdash/internal/service"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Storage struct {
	db *sql.DB
}

var _ service.BackgroundStore = (*Storage)(nil)

// New connects to the database, applies pending migrations and provisions
// the settings singleton.
func New(cfg config.Pg) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	storage := &Storage{db}
	if err := storage.EnsureSettings(); err != nil {
		db.Close()
		return nil, fmt.Errorf("provision settings: %w", err)
	}
	return storage, nil
}

func Connect(cfg config.Pg) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Dbname, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// EnsureSettings inserts the settings singleton if it is missing. The row is
// never deleted afterwards, only updated in place.
func (s *Storage) EnsureSettings() error {
	def := domain.DefaultSettings()
	_, err := s.db.Exec(`
		INSERT INTO settings (
			id, dashboard_title, dashboard_bg_image, cols_per_row, column_width,
			card_height, column_bg_color, column_bg_opacity, card_bg_color, card_bg_opacity
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		def.DashboardTitle, def.DashboardBgImage, def.ColsPerRow, def.ColumnWidth,
		def.CardHeight, def.ColumnBgColor, def.ColumnBgOpacity, def.CardBgColor, def.CardBgOpacity)
	return err
}

// Ping reports whether the database is reachable, used by the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}
