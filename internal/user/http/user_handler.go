// Package http provides the profile endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	"github.com/allisson/legacyvault/internal/httputil"
	"github.com/allisson/legacyvault/internal/user/http/dto"
	"github.com/allisson/legacyvault/internal/user/usecase"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// UserHandler handles profile reads and updates.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetProfileHandler returns a user's profile.
// GET /api/v1/users/:id/profile - Returns 200 OK, 404 for an unknown user.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	id, ok := h.ownerID(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.GetProfile(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateProfileHandler applies the supplied profile fields.
// PUT /api/v1/users/:id/profile - Returns 200 OK with the updated profile.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	id, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), id, req.ToProfileUpdate())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ownerID parses :id and checks it against the authenticated principal.
func (h *UserHandler) ownerID(c *gin.Context) (int64, bool) {
	id, err := httputil.ParseID(c.Param("id"), "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return 0, false
	}

	if err := authHTTP.AuthorizeOwner(c, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return 0, false
	}

	return id, true
}
