package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"SafeEduBackend/models"
)

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	list, err := h.portal.Progress.ListForUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	progress, err := h.portal.Progress.Get(r.Context(), vars["userId"], vars["courseId"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

// UpsertProgress applies a partial update, creating the record on first use.
func (h *Handler) UpsertProgress(w http.ResponseWriter, r *http.Request) {
	var patch models.ProgressPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	vars := mux.Vars(r)
	progress, err := h.portal.Progress.Upsert(r.Context(), vars["userId"], vars["courseId"], patch)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}
