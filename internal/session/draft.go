package session

import (
	"context"
	"strings"
	"sync"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/logger"
)

// DraftState is the draft screen's top-level state.
type DraftState string

const (
	// DraftIdle is the initial form state, before any submission.
	DraftIdle DraftState = "idle"
	// DraftSubmitting means a generation call is in flight.
	DraftSubmitting DraftState = "submitting"
	// DraftResultReady means a generated description is on screen.
	DraftResultReady DraftState = "result_ready"
	// DraftFailed means the last submission failed; inputs are retained.
	DraftFailed DraftState = "failed"
)

// DraftSession governs one in-progress generation: form inputs, attached
// images, submission, result display, and the optional save to history.
type DraftSession struct {
	mu        sync.Mutex
	generator Generator
	store     Store
	auth      AuthState
	clipboard Clipboard

	// Images is the bounded attachment set consumed by the next submit.
	Images *Attachments

	state     DraftState
	lastAttrs domain.GenerationAttributes
	result    string
	saved     bool
	savedID   string
	saving    bool
	errMsg    string
}

// NewDraftSession creates a draft session in the idle state.
// Parameters:
//   - generator: generation service.
//   - store: persistence service for the optional save.
//   - auth: authentication state gating the save.
//   - clipboard: clipboard sink for Copy.
// Returns:
//   - *DraftSession: initialized session.
func NewDraftSession(generator Generator, store Store, auth AuthState, clipboard Clipboard) *DraftSession {
	return &DraftSession{
		generator: generator,
		store:     store,
		auth:      auth,
		clipboard: clipboard,
		Images:    NewAttachments(),
		state:     DraftIdle,
	}
}

// Submit validates the form, encodes the attachments, and runs one
// generation call. On success the result is stored, all image state is
// cleared, and the save state resets to "not saved". On failure the form and
// attachments are retained for retry.
// Parameters:
//   - ctx: context for the generation call.
//   - attrs: form attribute values at submit time.
// Returns:
//   - error: ErrBusy while submitting, ValidationError for missing fields,
//     or the mapped service failure.
func (d *DraftSession) Submit(ctx context.Context, attrs domain.GenerationAttributes) error {
	if err := validateSubmit(attrs); err != nil {
		return err
	}

	d.mu.Lock()
	if d.state == DraftSubmitting {
		d.mu.Unlock()
		return ErrBusy
	}
	d.state = DraftSubmitting
	d.errMsg = ""
	d.mu.Unlock()

	// Encoded payloads are scoped to this call so they cannot linger once
	// the submission settles
	text, err := d.generator.Generate(ctx, attrs, d.Images.EncodeAll())

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = DraftFailed
		d.errMsg = userMessage(err, fallbackGenerate)
		logger.CtxWarn(ctx, "Generation failed: %s", d.errMsg)
		return err
	}

	d.state = DraftResultReady
	d.lastAttrs = attrs
	d.result = text
	d.saved = false
	d.savedID = ""
	d.Images.Clear()
	return nil
}

// Save persists the current result to history. Requires authentication and a
// result; a second call after a successful save is a no-op. A failed save
// leaves the session unsaved so the user can retry.
// Parameters:
//   - ctx: context for the persistence call.
// Returns:
//   - error: ErrBusy while saving, ValidationError when unauthenticated or
//     without a result, or the mapped service failure.
func (d *DraftSession) Save(ctx context.Context) error {
	d.mu.Lock()
	if d.saving {
		d.mu.Unlock()
		return ErrBusy
	}
	if !d.auth.IsAuthenticated() {
		d.mu.Unlock()
		return newValidationError("Sign in to save generations")
	}
	if d.result == "" {
		d.mu.Unlock()
		return newValidationError("Nothing to save yet")
	}
	if d.saved {
		d.mu.Unlock()
		return nil
	}
	attrs, text := d.lastAttrs, d.result
	d.saving = true
	d.mu.Unlock()

	// Attachments are not uploaded to storage; records carry no image URLs
	// from the draft screen
	res, err := d.store.SaveGeneration(ctx, attrs, text, []string{})

	d.mu.Lock()
	defer d.mu.Unlock()
	d.saving = false

	if err != nil {
		d.errMsg = userMessage(err, fallbackSave)
		return err
	}

	d.saved = true
	d.savedID = res.ID
	d.errMsg = ""
	return nil
}

// Copy writes the current result to the clipboard. A session without a
// result is a no-op; no state transition happens either way.
// Parameters: none.
// Returns:
//   - error: clipboard failure, if any.
func (d *DraftSession) Copy() error {
	d.mu.Lock()
	text := d.result
	d.mu.Unlock()

	if text == "" {
		return nil
	}
	return d.clipboard.WriteText(text)
}

// State returns the draft's current top-level state.
func (d *DraftSession) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Result returns the generated description, empty before the first success.
func (d *DraftSession) Result() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// Saved reports whether the current result has been persisted.
func (d *DraftSession) Saved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saved
}

// SavedID returns the record ID assigned by the last successful save.
func (d *DraftSession) SavedID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.savedID
}

// Err returns the last user-facing error message, empty when the last
// operation succeeded.
func (d *DraftSession) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMsg
}

// validateSubmit enforces the required form fields.
func validateSubmit(attrs domain.GenerationAttributes) error {
	if strings.TrimSpace(attrs.ProductName) == "" ||
		strings.TrimSpace(attrs.ProductCategory) == "" ||
		strings.TrimSpace(attrs.TargetAudience) == "" ||
		strings.TrimSpace(attrs.TargetLanguage) == "" {
		return newValidationError("Product name, category, target audience, and target language are required")
	}
	return nil
}
