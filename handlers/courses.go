package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"SafeEduBackend/models"
)

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.portal.Catalog.ListActive(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.portal.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, course)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var in models.CourseCreate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	course, err := h.portal.Catalog.Create(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, course)
}

// ListAssessments returns a course's questions, correct answers included.
func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	questions, err := h.portal.Assessments.ListForCourse(r.Context(), mux.Vars(r)["courseId"])
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, questions)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in models.AssessmentCreate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDecodeError(w, err)
		return
	}
	in.CourseID = mux.Vars(r)["courseId"]

	question, err := h.portal.Assessments.CreateQuestion(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, question)
}
