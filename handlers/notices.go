package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"SafeEduBackend/middleware"
	"SafeEduBackend/models"
)

func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := h.portal.Notices.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notices)
}

// GetNotice counts a view. Admins can pass ?preview=true to read without
// touching the counter.
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var (
		notice *models.Notice
		err    error
	)
	principal, _ := middleware.PrincipalFromContext(r.Context())
	if principal.IsAdmin() && r.URL.Query().Get("preview") == "true" {
		notice, err = h.portal.Notices.Get(r.Context(), id)
	} else {
		notice, err = h.portal.Notices.RecordView(r.Context(), id)
	}
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notice)
}

func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var in models.NoticeCreate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	principal, _ := middleware.PrincipalFromContext(r.Context())
	notice, err := h.portal.Notices.Create(r.Context(), principal.ID, in)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, notice)
}

func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	var in models.NoticeUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	notice, err := h.portal.Notices.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notice)
}

func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	if err := h.portal.Notices.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
