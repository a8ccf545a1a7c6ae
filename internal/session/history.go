package session

import (
	"context"
	"sync"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/logger"
)

// EditOverlay holds edit-in-progress overrides layered atop one record's
// stored values, plus the pending regenerated text that must exist before a
// save-update is allowed. The product name is never part of the overlay: it
// identifies the record and cannot be edited.
type EditOverlay struct {
	ProductCategory *string
	TargetAudience  *string
	UserDescription *string
	TargetLanguage  *string

	// PendingText is the regenerated description awaiting save-update.
	PendingText string
	// Err is the user-facing message from the last failed regenerate or
	// save-update.
	Err string
}

// overlayFrom pre-fills an overlay with the record's current values so the
// edit form opens populated, not blank.
func overlayFrom(rec *domain.Generation) *EditOverlay {
	category := rec.ProductCategory
	audience := rec.TargetAudience
	description := rec.UserDescription
	language := rec.TargetLanguage
	return &EditOverlay{
		ProductCategory: &category,
		TargetAudience:  &audience,
		UserDescription: &description,
		TargetLanguage:  &language,
	}
}

// EffectiveAttributes resolves overlay-over-record: each field uses the
// overlay value when present, the stored value otherwise. The product name
// always comes from the record.
// Parameters:
//   - rec: underlying persisted record.
//   - overlay: edit overrides; nil yields the stored attributes.
// Returns:
//   - domain.GenerationAttributes: resolved attribute set.
func EffectiveAttributes(rec *domain.Generation, overlay *EditOverlay) domain.GenerationAttributes {
	attrs := rec.Attributes()
	if overlay == nil {
		return attrs
	}
	if overlay.ProductCategory != nil {
		attrs.ProductCategory = *overlay.ProductCategory
	}
	if overlay.TargetAudience != nil {
		attrs.TargetAudience = *overlay.TargetAudience
	}
	if overlay.UserDescription != nil {
		attrs.UserDescription = *overlay.UserDescription
	}
	if overlay.TargetLanguage != nil {
		attrs.TargetLanguage = *overlay.TargetLanguage
	}
	return attrs
}

// HistorySession governs the saved-generations screen: the canonical record
// list, the single active edit overlay, and per-record translation panels.
// Edit and translation sub-state is keyed by record identity, so sessions
// for different records never share mutable state.
type HistorySession struct {
	mu         sync.Mutex
	generator  Generator
	translator Translator
	store      Store
	confirm    Confirmer

	records   []domain.Generation
	editingID string
	overlay   *EditOverlay
	panels    map[string]*TranslationPanel

	loading      bool
	regenerating map[string]bool
	saving       map[string]bool
	deleting     map[string]bool
	translating  map[string]bool
	errMsg       string
}

// NewHistorySession creates a history session with an empty record list.
// Parameters:
//   - generator: generation service used by regenerate.
//   - translator: translation service used by the panels.
//   - store: persistence service.
//   - confirm: confirmation gate for deletes.
// Returns:
//   - *HistorySession: initialized session.
func NewHistorySession(generator Generator, translator Translator, store Store, confirm Confirmer) *HistorySession {
	return &HistorySession{
		generator:    generator,
		translator:   translator,
		store:        store,
		confirm:      confirm,
		panels:       make(map[string]*TranslationPanel),
		regenerating: make(map[string]bool),
		saving:       make(map[string]bool),
		deleting:     make(map[string]bool),
		translating:  make(map[string]bool),
	}
}

// Load replaces the record list with the canonical server-side list.
// Parameters:
//   - ctx: context for the list call.
// Returns:
//   - error: ErrBusy while loading, or the mapped service failure.
func (h *HistorySession) Load(ctx context.Context) error {
	h.mu.Lock()
	if h.loading {
		h.mu.Unlock()
		return ErrBusy
	}
	h.loading = true
	h.mu.Unlock()

	records, err := h.store.ListGenerations(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false

	if err != nil {
		h.errMsg = userMessage(err, fallbackLoad)
		return err
	}
	h.records = records
	h.errMsg = ""
	return nil
}

// Records returns a copy of the current record list.
// Parameters: none.
// Returns:
//   - []domain.Generation: records, newest first.
func (h *HistorySession) Records() []domain.Generation {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Generation, len(h.records))
	copy(out, h.records)
	return out
}

// EditingID returns the ID of the record currently being edited, empty when
// no edit is open.
func (h *HistorySession) EditingID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.editingID
}

// Overlay returns the open edit overlay for the given record, nil when that
// record is not being edited.
// Parameters:
//   - id: record ID.
// Returns:
//   - *EditOverlay: mutable overlay, or nil.
func (h *HistorySession) Overlay(id string) *EditOverlay {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.editingID != id {
		return nil
	}
	return h.overlay
}

// BeginEdit opens the edit overlay for a record, pre-filled from its stored
// values. At most one record is ever in the editing state: an overlay open
// on another record is discarded first.
// Parameters:
//   - id: record ID to edit.
// Returns:
//   - error: ValidationError if the record is not in the list.
func (h *HistorySession) BeginEdit(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := h.findLocked(id)
	if rec == nil {
		return newValidationError("Generation not found")
	}

	h.editingID = id
	h.overlay = overlayFrom(rec)
	return nil
}

// CancelEdit discards the open overlay and returns the record to viewing.
// Other records' sessions are unaffected.
// Parameters: none.
// Returns: none.
func (h *HistorySession) CancelEdit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.editingID = ""
	h.overlay = nil
}

// Regenerate produces a candidate description from the effective attributes
// (overlay over record, product name pinned from the record) and stores it
// as the overlay's pending text. Each call replaces the previous pending
// text; a failure keeps the overlay editable for retry.
// Parameters:
//   - ctx: context for the generation call.
//   - id: record ID being edited.
// Returns:
//   - error: ErrBusy while regenerating, ValidationError when the record is
//     not being edited, or the mapped service failure.
func (h *HistorySession) Regenerate(ctx context.Context, id string) error {
	h.mu.Lock()
	if h.editingID != id || h.overlay == nil {
		h.mu.Unlock()
		return newValidationError("Open the editor before regenerating")
	}
	if h.regenerating[id] {
		h.mu.Unlock()
		return ErrBusy
	}
	rec := h.findLocked(id)
	if rec == nil {
		h.mu.Unlock()
		return newValidationError("Generation not found")
	}
	attrs := EffectiveAttributes(rec, h.overlay)
	h.regenerating[id] = true
	h.mu.Unlock()

	text, err := h.generator.Generate(ctx, attrs, nil)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.regenerating, id)

	// The overlay may have been cancelled while the call was in flight
	if h.editingID != id || h.overlay == nil {
		return nil
	}
	if err != nil {
		h.overlay.Err = userMessage(err, fallbackGenerate)
		logger.CtxWarn(ctx, "Regenerate failed: id=%s, err=%s", id, h.overlay.Err)
		return err
	}
	h.overlay.PendingText = text
	h.overlay.Err = ""
	return nil
}

// SaveUpdate overwrites the record with the effective attributes and the
// pending regenerated text. Regeneration must precede save: without pending
// text the call is rejected before any service access. Stored image
// references are preserved unchanged. On success the canonical list is
// reloaded from the store and the record returns to viewing.
// Parameters:
//   - ctx: context for the persistence calls.
//   - id: record ID being edited.
// Returns:
//   - error: ErrBusy while saving, ValidationError when no pending text
//     exists, or the mapped service failure.
func (h *HistorySession) SaveUpdate(ctx context.Context, id string) error {
	h.mu.Lock()
	if h.editingID != id || h.overlay == nil {
		h.mu.Unlock()
		return newValidationError("Open the editor before saving")
	}
	if h.overlay.PendingText == "" {
		h.mu.Unlock()
		return newValidationError("Regenerate the description before saving")
	}
	if h.saving[id] {
		h.mu.Unlock()
		return ErrBusy
	}
	rec := h.findLocked(id)
	if rec == nil {
		h.mu.Unlock()
		return newValidationError("Generation not found")
	}
	attrs := EffectiveAttributes(rec, h.overlay)
	pending := h.overlay.PendingText
	imageURLs := append([]string(nil), rec.ImageURLs...)
	h.saving[id] = true
	h.mu.Unlock()

	_, err := h.store.SaveGeneration(ctx, attrs, pending, imageURLs)

	h.mu.Lock()
	if err != nil {
		delete(h.saving, id)
		if h.editingID == id && h.overlay != nil {
			h.overlay.Err = userMessage(err, fallbackSave)
		}
		h.mu.Unlock()
		return err
	}
	delete(h.saving, id)
	if h.editingID == id {
		h.editingID = ""
		h.overlay = nil
	}
	h.mu.Unlock()

	// Reload rather than patch locally so server-computed timestamps stay
	// consistent
	return h.Load(ctx)
}

// DeleteRecord deletes a record after an explicit confirmation. A declined
// confirmation is not an error and makes no service call. On success the
// record leaves the in-memory list directly, along with its translation
// panel; no reload happens.
// Parameters:
//   - ctx: context for the delete call.
//   - id: record ID to delete.
// Returns:
//   - error: ErrBusy while deleting, or the mapped service failure.
func (h *HistorySession) DeleteRecord(ctx context.Context, id string) error {
	h.mu.Lock()
	if h.deleting[id] {
		h.mu.Unlock()
		return ErrBusy
	}
	if h.findLocked(id) == nil {
		h.mu.Unlock()
		return newValidationError("Generation not found")
	}
	h.mu.Unlock()

	// Deletion is irreversible, so it is the one operation behind a
	// confirmation gate
	if !h.confirm.Confirm("Delete this generation? This cannot be undone.") {
		return nil
	}

	h.mu.Lock()
	if h.deleting[id] {
		h.mu.Unlock()
		return ErrBusy
	}
	h.deleting[id] = true
	h.mu.Unlock()

	err := h.store.DeleteGeneration(ctx, id)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.deleting, id)

	if err != nil {
		h.errMsg = userMessage(err, fallbackDelete)
		return err
	}

	for i, rec := range h.records {
		if rec.ID == id {
			h.records = append(h.records[:i], h.records[i+1:]...)
			break
		}
	}
	if h.editingID == id {
		h.editingID = ""
		h.overlay = nil
	}
	// Translation state survives panel toggles but not its record
	delete(h.panels, id)
	h.errMsg = ""
	return nil
}

// Err returns the last list-level user-facing error message.
func (h *HistorySession) Err() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errMsg
}

// findLocked returns the record with the given ID. Caller holds h.mu.
func (h *HistorySession) findLocked(id string) *domain.Generation {
	for i := range h.records {
		if h.records[i].ID == id {
			return &h.records[i]
		}
	}
	return nil
}
