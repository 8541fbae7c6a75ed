// Package http provides the scheduled message endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	"github.com/allisson/legacyvault/internal/httputil"
	"github.com/allisson/legacyvault/internal/message/http/dto"
	"github.com/allisson/legacyvault/internal/message/usecase"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

var errUserIDRequired = errors.New("user_id is required")

// MessageHandler handles HTTP requests for scheduled messages.
type MessageHandler struct {
	messageUseCase usecase.UseCase
	logger         *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageUseCase usecase.UseCase, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

// ScheduleHandler encrypts and stores a message for future delivery.
// POST /api/v1/messages/schedule - Returns 201 Created.
func (h *MessageHandler) ScheduleHandler(c *gin.Context) {
	var req dto.ScheduleMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if strings.TrimSpace(string(req.UserID)) == "" {
		httputil.HandleBadRequestGin(c, errUserIDRequired, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ownerID, ok := h.resolveOwner(c, string(req.UserID))
	if !ok {
		return
	}

	message, err := h.messageUseCase.Schedule(c.Request.Context(), req.ToInput(ownerID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapMessageToScheduleResponse(message))
}

// ListHandler returns message summaries for the owner.
// GET /api/v1/messages/list?user_id=&offset=&limit= - Returns 200 OK.
func (h *MessageHandler) ListHandler(c *gin.Context) {
	ref := c.Query("user_id")
	if strings.TrimSpace(ref) == "" {
		httputil.HandleBadRequestGin(c, errUserIDRequired, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ownerID, ok := h.resolveOwner(c, ref)
	if !ok {
		return
	}

	messages, err := h.messageUseCase.List(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToListResponse(messages))
}

func (h *MessageHandler) resolveOwner(c *gin.Context, ref string) (int64, bool) {
	ownerID, err := h.messageUseCase.ResolveOwner(c.Request.Context(), ref)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return 0, false
	}

	if err := authHTTP.AuthorizeOwner(c, ownerID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return 0, false
	}

	return ownerID, true
}
