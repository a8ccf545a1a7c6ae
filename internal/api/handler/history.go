package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coderRohan123/tempdescription/internal/api/middleware"
	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/service"
)

// HistoryHandler handles saved-generation endpoints.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new history handler.
// Parameters:
//   - history: history service instance.
// Returns:
//   - *HistoryHandler: initialized handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type saveGenerationRequest struct {
	ProductName      string   `json:"product_name"`
	ProductCategory  string   `json:"product_category"`
	TargetAudience   string   `json:"target_audience"`
	UserDescription  string   `json:"user_description"`
	TargetLanguage   string   `json:"target_language"`
	FinalDescription string   `json:"final_description"`
	ImageURLs        []string `json:"image_urls"`
}

// List handles GET /api/generations.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HistoryHandler) List(c *gin.Context) {
	generations, err := h.history.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"generations": generations})
}

// Save handles POST /api/generations/save. Responds 201 on create and 200 on
// update-in-place.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HistoryHandler) Save(c *gin.Context) {
	var req saveGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	attrs := domain.GenerationAttributes{
		ProductName:     strings.TrimSpace(req.ProductName),
		ProductCategory: strings.TrimSpace(req.ProductCategory),
		TargetAudience:  strings.TrimSpace(req.TargetAudience),
		UserDescription: strings.TrimSpace(req.UserDescription),
		TargetLanguage:  strings.TrimSpace(req.TargetLanguage),
	}
	if attrs.TargetLanguage == "" {
		attrs.TargetLanguage = "English"
	}
	finalDescription := strings.TrimSpace(req.FinalDescription)

	if attrs.ProductName == "" || finalDescription == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name and description are required"})
		return
	}

	result, err := h.history.Save(c.Request.Context(), middleware.UserID(c), attrs, finalDescription, req.ImageURLs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	message := "Generation saved successfully"
	status := http.StatusCreated
	if result.Updated {
		message = "Generation updated successfully"
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"message": message,
		"id":      result.ID,
		"updated": result.Updated,
	})
}

// Delete handles DELETE /api/generations/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HistoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Generation ID is required"})
		return
	}

	if err := h.history.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		if errors.Is(err, service.ErrGenerationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Generation deleted successfully"})
}
