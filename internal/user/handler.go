package user

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/proposals-lambda/internal/auth"
	"github.com/saulo-duarte/proposals-lambda/internal/config"
)

type Handler struct {
	repo UserRepository
}

func NewHandler(repo UserRepository) *Handler {
	return &Handler{repo: repo}
}

// GetUser godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		config.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Token carries an invalid user id")
		config.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			config.Message(w, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).Error("Failed to load user")
		config.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	config.JSON(w, http.StatusOK, u)
}
