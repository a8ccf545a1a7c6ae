package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/service"
)

// GenerateHandler handles description generation and translation endpoints.
type GenerateHandler struct {
	gemini *service.GeminiService
}

// NewGenerateHandler creates a new generate handler.
// Parameters:
//   - gemini: Gemini service instance.
// Returns:
//   - *GenerateHandler: initialized handler.
func NewGenerateHandler(gemini *service.GeminiService) *GenerateHandler {
	return &GenerateHandler{gemini: gemini}
}

type generateRequest struct {
	ProductName     string   `json:"product_name"`
	ProductCategory string   `json:"product_category"`
	TargetAudience  string   `json:"target_audience"`
	UserDescription string   `json:"user_description"`
	TargetLanguage  string   `json:"target_language"`
	Image           string   `json:"image"`
	Images          []string `json:"images"`
}

type translateRequest struct {
	Description string   `json:"description"`
	Languages   []string `json:"languages"`
}

// Generate handles POST /api/generate-description.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
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

	// The images array wins; the single image field is kept for older clients
	images := req.Images
	if len(images) == 0 && req.Image != "" {
		images = []string{req.Image}
	}
	if len(images) > service.MaxImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 5 images allowed"})
		return
	}

	description, err := h.gemini.Generate(c.Request.Context(), attrs, images)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": description})
}

// Translate handles POST /api/translate-description.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *GenerateHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}
	if len(req.Languages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one target language is required"})
		return
	}
	if len(req.Languages) > service.MaxTranslationLanguages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 3 languages allowed"})
		return
	}

	translations, err := h.gemini.Translate(c.Request.Context(), description, req.Languages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"translations": translations})
}
