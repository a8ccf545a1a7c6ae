package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/prompts"
)

// MaxImages is the upper bound on images accepted by a single generation call.
const MaxImages = 5

// MaxTranslationLanguages is the upper bound on languages per translate call.
const MaxTranslationLanguages = 3

// GeminiService generates product descriptions and translations using the
// Gemini generateContent API.
type GeminiService struct {
	client   *resty.Client
	model    string
	endpoint string
}

// GeminiConfig holds configuration for the Gemini service.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGeminiService creates a new Gemini service.
// Parameters:
//   - cfg: Gemini configuration including model, API key, and base URL.
// Returns:
//   - *GeminiService: initialized Gemini client wrapper.
func NewGeminiService(cfg *GeminiConfig) *GeminiService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", baseURL, model)

	return &GeminiService{
		client:   client,
		model:    model,
		endpoint: endpoint,
	}
}

// GetModel returns the model name being used.
// Parameters: none.
// Returns:
//   - string: model identifier.
func (s *GeminiService) GetModel() string {
	return s.model
}

// Gemini generateContent API request/response structures
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate produces a product description from attributes and optional
// base64-encoded images (plain base64 or data URLs).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - attrs: product attributes to describe.
//   - images: up to MaxImages encoded image payloads; may be empty.
// Returns:
//   - string: generated description text.
//   - error: non-nil if validation or the API request fails.
func (s *GeminiService) Generate(ctx context.Context, attrs domain.GenerationAttributes, images []string) (string, error) {
	if len(images) > MaxImages {
		return "", fmt.Errorf("maximum %d images allowed", MaxImages)
	}

	promptText := prompts.BuildDescriptionPrompt(attrs)

	parts := []geminiPart{{Text: promptText}}
	for _, img := range images {
		data, mimeType := splitDataURL(img)
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     data,
		}})
	}

	return s.generateContent(ctx, parts)
}

// Translate translates a finished description into each requested language.
// Languages are processed one by one so a single prompt never mixes targets.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - description: final description text to translate.
//   - languages: 1 to MaxTranslationLanguages non-empty language names.
// Returns:
//   - map[string]string: language name to translated text.
//   - error: non-nil if validation or an API request fails.
func (s *GeminiService) Translate(ctx context.Context, description string, languages []string) (map[string]string, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}
	if len(languages) > MaxTranslationLanguages {
		return nil, fmt.Errorf("maximum %d languages allowed", MaxTranslationLanguages)
	}

	translations := make(map[string]string, len(languages))
	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}

		prompt := prompts.BuildTranslationPrompt(description, lang)
		text, err := s.generateContent(ctx, []geminiPart{{Text: prompt}})
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			text = fmt.Sprintf("Translation to %s failed", lang)
		}
		translations[lang] = text
	}
	return translations, nil
}

// generateContent sends one generateContent request and extracts the text.
func (s *GeminiService) generateContent(ctx context.Context, parts []geminiPart) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}

	var resp geminiResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		message := ""
		if resp.Error != nil {
			message = resp.Error.Message
		}
		return "", friendlyGeminiError(httpResp.StatusCode(), message)
	}

	if resp.Error != nil {
		return "", friendlyGeminiError(resp.Error.Code, resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from AI model. Please try again")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no response from AI model. Please try again")
	}
	return text, nil
}

// friendlyGeminiError maps upstream failures to messages safe to surface to
// end users.
func friendlyGeminiError(code int, message string) error {
	lower := strings.ToLower(message)
	switch {
	case code >= 500 || strings.Contains(lower, "internal error"):
		return fmt.Errorf("AI service is temporarily unavailable. Please try again in a moment")
	case code == 429 || strings.Contains(lower, "quota"):
		return fmt.Errorf("API quota exceeded. Please try again later")
	case code == 401 || code == 403 || strings.Contains(lower, "api key"):
		return fmt.Errorf("API key is invalid or expired. Please check your configuration")
	case message != "":
		return fmt.Errorf("failed to generate description: %s", message)
	default:
		return fmt.Errorf("failed to generate description: HTTP %d", code)
	}
}

// splitDataURL accepts a plain base64 string or a data URL
// (data:image/xxx;base64,...) and returns the raw base64 payload plus a
// best-effort MIME type.
func splitDataURL(img string) (data string, mimeType string) {
	mimeType = "image/png"
	data = img
	if strings.HasPrefix(img, "data:image") {
		if idx := strings.Index(img, ","); idx != -1 {
			header := img[:idx]
			data = img[idx+1:]
			header = strings.TrimPrefix(header, "data:")
			if semi := strings.Index(header, ";"); semi != -1 {
				mimeType = header[:semi]
			}
		}
	}
	return data, mimeType
}
