package handlers

import (
	"net/http"
	"time"

	"SafeEduBackend/logger"
	"SafeEduBackend/middleware"
	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

// Handler serves the portal API on top of the components.
type Handler struct {
	portal *services.Portal
	tokens *middleware.TokenIssuer
	log    *logger.Logger
}

func New(portal *services.Portal, tokens *middleware.TokenIssuer, log *logger.Logger) *Handler {
	return &Handler{portal: portal, tokens: tokens, log: log.With("component", "http")}
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Register creates a regular user account. Roles cannot be chosen by the
// caller.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var signup models.UserSignup
	if err := decodeJSON(w, r, &signup); err != nil {
		respondWithDecodeError(w, err)
		return
	}
	signup.Role = models.RoleUser

	user, err := h.portal.Identity.Register(r.Context(), signup)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var login models.UserLogin
	if err := decodeJSON(w, r, &login); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	user, err := h.portal.Identity.Authenticate(r.Context(), login.Email, login.Password)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.log.Error("error generating token", "user_id", user.ID, "err", err)
		respondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !h.tokens.RevokeFromContext(r.Context()) {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.portal.Identity.GetUser(r.Context(), principal.ID)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "SafeEdu Backend"})
}
