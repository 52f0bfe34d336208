// Package handler maps HTTP routes onto the board and settings repositories.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/startdash-dev/startdash/internal/config"
	"github.com/startdash-dev/startdash/internal/domain"
	apperrors "github.com/startdash-dev/startdash/internal/errors"
	"github.com/startdash-dev/startdash/internal/logger"
	mw "github.com/startdash-dev/startdash/internal/middleware"
)

// BoardStore is the board aggregate repository as the handlers need it.
type BoardStore interface {
	GetState() (*domain.Board, error)
	AddCard(columnId domain.ColumnId, title, link, description, icon string) (*domain.Card, error)
	UpdateCard(cardId domain.CardId, patch domain.CardPatch) (*domain.Card, error)
	DeleteCard(cardId domain.CardId) error
	AddColumn(name string) (*domain.Column, error)
	UpdateColumn(columnId domain.ColumnId, name string) (*domain.Column, error)
	DeleteColumn(columnId domain.ColumnId) error
	ReorderCards(columnId domain.ColumnId, order []domain.CardId) error
	ReorderColumns(order []domain.ColumnId) error
}

// SettingsStore is the settings singleton repository.
type SettingsStore interface {
	GetSettings() (*domain.Settings, error)
	UpdateSettings(patch *domain.SettingsPatch) (*domain.Settings, error)
}

// BackgroundManager runs the background upload/clear pipeline.
type BackgroundManager interface {
	Upload(filename, claimedMime string, data io.ReadSeeker) (url string, err error)
	Clear() error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	board       BoardStore
	settings    SettingsStore
	backgrounds BackgroundManager
	health      Pinger
	cfg         *config.Config
}

func New(board BoardStore, settings SettingsStore, backgrounds BackgroundManager, health Pinger, cfg *config.Config) *Handler {
	return &Handler{board: board, settings: settings, backgrounds: backgrounds, health: health, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError translates an error into the {"error":{...}} envelope. Anything
// without an explicit status code is logged with the request id and reported
// as a generic 500 so internals never leak to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *apperrors.ErrorWithStatusCode
	if errors.As(err, &statusErr) {
		writeJSON(w, statusErr.StatusCode, errorEnvelope{Error: errorBody{
			Message: statusErr.Message,
			Details: statusErr.Details,
		}})
		return
	}
	logger.Log.Error("internal error", "error", err, "request_id", mw.GetRequestID(r), "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: errorBody{
		Message: "internal server error",
	}})
}

func parseIdParam(param string) (int64, error) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.Validation("invalid id: must be a positive integer")
	}
	return id, nil
}
