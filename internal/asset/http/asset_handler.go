// Package http provides the asset upload, list and download endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/asset/http/dto"
	"github.com/allisson/legacyvault/internal/asset/usecase"
	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	"github.com/allisson/legacyvault/internal/httputil"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// multipartOverhead is the allowance for form fields and part headers on top of the file limit.
const multipartOverhead = 1 << 20

// AssetHandler handles HTTP requests for encrypted assets.
type AssetHandler struct {
	assetUseCase  usecase.UseCase
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAssetHandler creates a new AssetHandler. A zero maxUploadSize leaves the body unbounded.
func NewAssetHandler(assetUseCase usecase.UseCase, maxUploadSize int64, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assetUseCase:  assetUseCase,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// UploadHandler encrypts and stores a multipart file.
// POST /api/v1/assets/upload - Returns 201 Created, 413 when the file is too large.
func (h *AssetHandler) UploadHandler(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)
	}

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.handleFormError(c, err)
		return
	}

	ownerID, ok := h.ownerID(c, form.UserID)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.handleFormError(c, err)
		return
	}

	if err := form.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	asset, err := h.assetUseCase.Upload(c.Request.Context(), usecase.UploadInput{
		OwnerID:     ownerID,
		Title:       form.Title,
		Description: form.Description,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAssetToUploadResponse(asset))
}

// ListHandler returns the owner's assets, newest first.
// GET /api/v1/assets/list?user_id=&offset=&limit= - Returns 200 OK.
func (h *AssetHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c, c.Query("user_id"))
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	assets, err := h.assetUseCase.List(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAssetsToListResponse(assets))
}

// DownloadHandler decrypts an owned asset and streams it as an attachment.
// GET /api/v1/assets/:id/download?user_id= - Returns 200 OK, 404 for a missing or foreign asset.
func (h *AssetHandler) DownloadHandler(c *gin.Context) {
	assetID, err := httputil.ParseID(c.Param("id"), "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ownerID, ok := h.ownerID(c, c.Query("user_id"))
	if !ok {
		return
	}

	download, err := h.assetUseCase.Download(c.Request.Context(), assetID, ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer func() {
		if err := h.assetUseCase.Remove(download); err != nil {
			h.logger.Error("failed to remove decrypted asset", slog.Any("error", err))
		}
	}()

	c.Header("Content-Type", download.ContentType)
	c.FileAttachment(download.Path, download.Filename)
}

// ownerID parses the user_id value and checks it against the authenticated principal.
func (h *AssetHandler) ownerID(c *gin.Context, raw string) (int64, bool) {
	id, err := httputil.ParseID(raw, "user_id")
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

func (h *AssetHandler) handleFormError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		httputil.HandleErrorGin(c, domain.ErrFileTooLarge, h.logger)
		return
	}
	httputil.HandleBadRequestGin(c, err, h.logger)
}
