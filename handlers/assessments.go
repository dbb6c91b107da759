package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"SafeEduBackend/models"
)

// SubmitAssessment scores a set of answers. A passing attempt carries its
// certificate in the response.
func (h *Handler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var submission models.AssessmentSubmission
	if err := decodeJSON(w, r, &submission); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	vars := mux.Vars(r)
	result, err := h.portal.Assessments.Submit(r.Context(), vars["userId"], vars["courseId"], submission.Answers)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	attempts, err := h.portal.Assessments.ListAttempts(r.Context(), vars["userId"], vars["courseId"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, attempts)
}

func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := h.portal.Certification.ListForUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, certs)
}
