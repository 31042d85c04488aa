package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unicollab/study-api/internal/service"
	appErrors "github.com/unicollab/study-api/pkg/errors"
	"github.com/unicollab/study-api/pkg/response"
)

// MaterialHandler exposes the upload pipeline and material endpoints.
type MaterialHandler struct {
	materials   *service.MaterialService
	maxFileSize int64
}

// NewMaterialHandler constructs handler.
func NewMaterialHandler(materials *service.MaterialService, maxFileSize int64) *MaterialHandler {
	return &MaterialHandler{materials: materials, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload a study document and generate summary + quiz
// @Tags Materials
// @Accept multipart/form-data
// @Produce json
// @Param userId formData string true "Owner user id"
// @Param pdf formData file true "Document file"
// @Success 200 {object} service.UploadMaterialResponse
// @Failure 400 {object} response.ErrorBody
// @Router /materials/upload [post]
func (h *MaterialHandler) Upload(c *gin.Context) {
	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "userId is required"))
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "document file is required"))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrFileTooLarge, "uploaded file exceeds the size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "could not open uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read uploaded file"))
		return
	}

	result, err := h.materials.Upload(c.Request.Context(), service.UploadMaterialRequest{
		UserID:   userID,
		FileName: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

type flashcardRequest struct {
	MaterialID string `json:"materialId"`
}

// Flashcards godoc
// @Summary Generate flashcards for a stored material
// @Tags Materials
// @Accept json
// @Produce json
// @Param payload body flashcardRequest true "Material reference"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /materials/flashcards [post]
func (h *MaterialHandler) Flashcards(c *gin.Context) {
	var req flashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cards, err := h.materials.GenerateFlashcards(c.Request.Context(), req.MaterialID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"flashcards": cards})
}

// ListByUser godoc
// @Summary List a user's uploaded materials
// @Tags Materials
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {array} models.Material
// @Router /materials/user/{userId} [get]
func (h *MaterialHandler) ListByUser(c *gin.Context) {
	materials, err := h.materials.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials)
}

// Delete godoc
// @Summary Delete a material
// @Tags Materials
// @Param id path string true "Material id"
// @Success 204 "deleted"
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
