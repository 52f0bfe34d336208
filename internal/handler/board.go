package handler

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/startdash-dev/startdash/internal/domain"
	"github.com/startdash-dev/startdash/internal/validation"
)

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	board, err := h.board.GetState()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	data, err := validation.DecodeObject(r.Body, "invalid card payload")
	if err != nil {
		writeError(w, r, err)
		return
	}

	title, err := validation.RequiredString(data, "title", 200)
	if err != nil {
		writeError(w, r, err)
		return
	}
	columnId, err := validation.RequiredInt(data, "column_id", 1, math.MaxInt64)
	if err != nil {
		writeError(w, r, err)
		return
	}
	link, err := validation.OptionalURL(data, "link", 2048)
	if err != nil {
		writeError(w, r, err)
		return
	}
	description, err := validation.OptionalString(data, "description", 2000)
	if err != nil {
		writeError(w, r, err)
		return
	}
	icon, err := validation.OptionalURL(data, "icon", 2048)
	if err != nil {
		writeError(w, r, err)
		return
	}

	card, err := h.board.AddCard(columnId, title, orEmpty(link), validation.PlainText(orEmpty(description)), orEmpty(icon))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := validation.DecodeObject(r.Body, "invalid card payload")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch domain.CardPatch
	if _, present := data["title"]; present {
		title, err := validation.RequiredString(data, "title", 200)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Title = &title
	}
	if patch.ColumnId, err = validation.OptionalInt(data, "column_id", 1, math.MaxInt64); err != nil {
		writeError(w, r, err)
		return
	}
	if patch.Link, err = validation.OptionalURL(data, "link", 2048); err != nil {
		writeError(w, r, err)
		return
	}
	description, err := validation.OptionalString(data, "description", 2000)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if description != nil {
		sanitized := validation.PlainText(*description)
		patch.Description = &sanitized
	}
	if patch.Icon, err = validation.OptionalURL(data, "icon", 2048); err != nil {
		writeError(w, r, err)
		return
	}

	card, err := h.board.UpdateCard(cardId, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.board.DeleteCard(cardId); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	name, err := decodeColumnName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	column, err := h.board.AddColumn(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, column)
}

func (h *Handler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	name, err := decodeColumnName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	column, err := h.board.UpdateColumn(columnId, name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, column)
}

func (h *Handler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.board.DeleteColumn(columnId); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReorderCards(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := decodeOrder(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.board.ReorderCards(columnId, order); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReorderColumns(w http.ResponseWriter, r *http.Request) {
	order, err := decodeOrder(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.board.ReorderColumns(order); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeColumnName(r *http.Request) (string, error) {
	data, err := validation.DecodeObject(r.Body, "invalid column payload")
	if err != nil {
		return "", err
	}
	return validation.RequiredString(data, "name", 120)
}

func decodeOrder(r *http.Request) ([]int64, error) {
	data, err := validation.DecodeObject(r.Body, "invalid reorder payload")
	if err != nil {
		return nil, err
	}
	return validation.IDList(data, "order")
}

func orEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
