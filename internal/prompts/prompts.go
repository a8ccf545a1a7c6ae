package prompts

import (
	"fmt"
	"strings"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// ============================================================================
// Description Generation
// ============================================================================

// DescriptionSystemInstruction defines the role and output rules for
// product-description generation. Plain text only: the descriptions are
// rendered verbatim in the product UI, so markdown syntax is forbidden.
const DescriptionSystemInstruction = `You are an expert marketing assistant. Create well-crafted, clean, and professional product descriptions that are focused and concise but comprehensive. Provide the content in clean paragraphs without markdown syntax (no # headers, no * bullet points). Use plain text formatting with clear line breaks between sections. Avoid generic phrases and focus on the specific product details provided.`

// BuildDescriptionPrompt assembles the generation prompt from product
// attributes. Empty attributes are omitted from the detail line, and the
// language instruction is suppressed for English.
// Parameters:
//   - attrs: product attributes entered in the form.
// Returns:
//   - string: full prompt text for the model.
func BuildDescriptionPrompt(attrs domain.GenerationAttributes) string {
	var parts []string
	if attrs.ProductName != "" {
		parts = append(parts, "Product Name: "+attrs.ProductName)
	}
	if attrs.ProductCategory != "" {
		parts = append(parts, "Category: "+attrs.ProductCategory)
	}
	if attrs.TargetAudience != "" {
		parts = append(parts, "Target Audience: "+attrs.TargetAudience)
	}
	if attrs.UserDescription != "" {
		parts = append(parts, "Description: "+attrs.UserDescription)
	}
	textInput := strings.Join(parts, " | ")

	languageInstruction := ""
	if attrs.TargetLanguage != "" && !strings.EqualFold(attrs.TargetLanguage, "english") {
		languageInstruction = fmt.Sprintf("Provide the response in %s.", attrs.TargetLanguage)
	}

	return fmt.Sprintf("%s %s Based on this information: %s. "+
		"Include brand name, product category, target audience, key features, benefits, and "+
		"usage instructions if mentioned. Keep it concise but comprehensive.",
		DescriptionSystemInstruction, languageInstruction, textInput)
}

// ============================================================================
// Translation
// ============================================================================

// LanguageInstruction pins the model's response language.
// Parameters:
//   - lang: target language name; blank falls back to English.
// Returns:
//   - string: instruction sentence for the model.
func LanguageInstruction(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "English"
	}
	return fmt.Sprintf("You are an assistant that must respond in %s. "+
		"Write naturally and correctly in %s. Do not switch languages.", lang, lang)
}

// BuildTranslationPrompt assembles the prompt for translating a finished
// description into a single target language.
// Parameters:
//   - description: final product description text.
//   - lang: target language name.
// Returns:
//   - string: full prompt text for the model.
func BuildTranslationPrompt(description, lang string) string {
	return fmt.Sprintf("%s\n\n"+
		"Translate the following product description. "+
		"Maintain the same professional tone, structure, and formatting. "+
		"Do not add or remove any information. Just translate the text accurately.\n\n"+
		"Product Description:\n%s\n\n"+
		"Translated to %s:",
		LanguageInstruction(lang), description, lang)
}
