package handler

import (
	"net/http"

	"github.com/startdash-dev/startdash/internal/validation"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	data, err := validation.DecodeObject(r.Body, "invalid settings payload")
	if err != nil {
		writeError(w, r, err)
		return
	}

	patch, err := validation.SettingsPatch(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.settings.UpdateSettings(patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	if err := h.backgrounds.Clear(); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
