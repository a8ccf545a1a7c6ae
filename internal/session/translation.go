package session

import (
	"context"
	"strings"
)

// MaxLanguageSlots bounds the language inputs in one translation panel.
const MaxLanguageSlots = 3

// TranslationPanel is the per-record translation sub-state: the editable
// language slots and the translations accumulated across translate calls.
// A panel outlives being hidden; only deleting its record clears it.
type TranslationPanel struct {
	Open    bool
	Slots   []string
	Results map[string]string
	Err     string
}

// TogglePanel opens or closes the translation panel for one record. Closing
// hides the panel but keeps its slots and accumulated results. The first
// open seeds a single empty language slot.
// Parameters:
//   - id: record ID.
// Returns:
//   - *TranslationPanel: the panel after toggling, nil if the record is
//     unknown.
func (h *HistorySession) TogglePanel(id string) *TranslationPanel {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.findLocked(id) == nil {
		return nil
	}

	panel, ok := h.panels[id]
	if !ok {
		panel = &TranslationPanel{
			Slots:   []string{""},
			Results: make(map[string]string),
		}
		h.panels[id] = panel
	}
	panel.Open = !panel.Open
	return panel
}

// Panel returns the translation panel for a record, nil if it was never
// opened.
// Parameters:
//   - id: record ID.
// Returns:
//   - *TranslationPanel: panel state, or nil.
func (h *HistorySession) Panel(id string) *TranslationPanel {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panels[id]
}

// AddLanguageSlot appends an empty language slot, up to MaxLanguageSlots.
// Adding at the limit is a no-op.
// Parameters:
//   - id: record ID whose panel gains a slot.
// Returns: none.
func (h *HistorySession) AddLanguageSlot(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	panel := h.panels[id]
	if panel == nil || len(panel.Slots) >= MaxLanguageSlots {
		return
	}
	panel.Slots = append(panel.Slots, "")
}

// RemoveLanguageSlot removes the slot at index. Removing the last slot is
// permitted; submission is then blocked by validation rather than slot
// count.
// Parameters:
//   - id: record ID whose panel loses a slot.
//   - index: slot position to remove.
// Returns: none.
func (h *HistorySession) RemoveLanguageSlot(id string, index int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	panel := h.panels[id]
	if panel == nil || index < 0 || index >= len(panel.Slots) {
		return
	}
	panel.Slots = append(panel.Slots[:index], panel.Slots[index+1:]...)
}

// SetLanguageSlot replaces the value of the slot at index.
// Parameters:
//   - id: record ID whose panel is edited.
//   - index: slot position to set.
//   - value: language name entered by the user.
// Returns: none.
func (h *HistorySession) SetLanguageSlot(id string, index int, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	panel := h.panels[id]
	if panel == nil || index < 0 || index >= len(panel.Slots) {
		return
	}
	panel.Slots[index] = value
}

// Translate validates the panel's language slots and translates the record's
// stored description into each. Results merge into the accumulated mapping:
// new languages add entries, repeated languages overwrite theirs. A failed
// call leaves the accumulated mapping untouched.
// Parameters:
//   - ctx: context for the translation call.
//   - id: record ID whose panel is submitted.
// Returns:
//   - error: ErrBusy while translating, ValidationError when the cleaned
//     slot list is empty or too long, or the mapped service failure.
func (h *HistorySession) Translate(ctx context.Context, id string) error {
	h.mu.Lock()
	panel := h.panels[id]
	if panel == nil {
		h.mu.Unlock()
		return newValidationError("Open the translation panel first")
	}
	rec := h.findLocked(id)
	if rec == nil {
		h.mu.Unlock()
		return newValidationError("Generation not found")
	}
	if h.translating[id] {
		h.mu.Unlock()
		return ErrBusy
	}

	languages := cleanLanguages(panel.Slots)
	if len(languages) == 0 {
		panel.Err = "Enter at least one language"
		h.mu.Unlock()
		return newValidationError("Enter at least one language")
	}
	if len(languages) > MaxLanguageSlots {
		panel.Err = "Maximum 3 languages allowed"
		h.mu.Unlock()
		return newValidationError("Maximum 3 languages allowed")
	}

	text := rec.FinalDescription
	h.translating[id] = true
	h.mu.Unlock()

	results, err := h.translator.Translate(ctx, text, languages)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.translating, id)

	if err != nil {
		panel.Err = userMessage(err, fallbackTranslate)
		return err
	}

	for lang, translated := range results {
		panel.Results[lang] = translated
	}
	panel.Err = ""
	return nil
}

// cleanLanguages trims each slot and drops empties, deduplicating while
// preserving order.
func cleanLanguages(slots []string) []string {
	cleaned := make([]string, 0, len(slots))
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		lang := strings.TrimSpace(slot)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		cleaned = append(cleaned, lang)
	}
	return cleaned
}
