// Package http provides the access rule endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/legacyvault/internal/accessrule/http/dto"
	"github.com/allisson/legacyvault/internal/accessrule/usecase"
	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	"github.com/allisson/legacyvault/internal/httputil"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

var errUserIDRequired = errors.New("user_id is required")

// AccessRuleHandler handles HTTP requests for access rules.
type AccessRuleHandler struct {
	accessRuleUseCase usecase.UseCase
	logger            *slog.Logger
}

// NewAccessRuleHandler creates a new AccessRuleHandler.
func NewAccessRuleHandler(accessRuleUseCase usecase.UseCase, logger *slog.Logger) *AccessRuleHandler {
	return &AccessRuleHandler{
		accessRuleUseCase: accessRuleUseCase,
		logger:            logger,
	}
}

// CreateHandler records a rule on an owned asset.
// POST /api/v1/access-rules/create - Returns 201 Created with rule_id and contract_id.
func (h *AccessRuleHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAccessRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if req.UserID <= 0 {
		httputil.HandleBadRequestGin(c, errUserIDRequired, h.logger)
		return
	}
	if err := authHTTP.AuthorizeOwner(c, req.UserID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	rule, err := h.accessRuleUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRuleToCreateResponse(rule))
}

// ListByAssetHandler lists the rules of an owned asset.
// GET /api/v1/access-rules/asset/:id?user_id= - Returns 200 OK, 404 for a missing or foreign asset.
func (h *AccessRuleHandler) ListByAssetHandler(c *gin.Context) {
	assetID, err := httputil.ParseID(c.Param("id"), "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ownerID, err := httputil.ParseID(c.Query("user_id"), "user_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := authHTTP.AuthorizeOwner(c, ownerID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	rules, err := h.accessRuleUseCase.ListByAsset(c.Request.Context(), assetID, ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRulesToListResponse(rules))
}
