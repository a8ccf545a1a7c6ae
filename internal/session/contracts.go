// Package session implements the client-side workflow state for the
// description generator: the draft screen, per-record history editing with
// regeneration, and per-record translation panels. Service access goes
// through the narrow interfaces below so the same state machines run against
// the in-process services or the HTTP API.
package session

import (
	"context"
	"errors"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// SaveResult reports the outcome of persisting a generation.
type SaveResult struct {
	ID      string
	Updated bool
}

// Generator produces a product description from attributes and optional
// encoded images.
type Generator interface {
	Generate(ctx context.Context, attrs domain.GenerationAttributes, images []string) (string, error)
}

// Translator translates a finished description into the requested languages.
type Translator interface {
	Translate(ctx context.Context, description string, languages []string) (map[string]string, error)
}

// Store persists generations for the authenticated user.
type Store interface {
	SaveGeneration(ctx context.Context, attrs domain.GenerationAttributes, finalDescription string, imageURLs []string) (SaveResult, error)
	ListGenerations(ctx context.Context) ([]domain.Generation, error)
	DeleteGeneration(ctx context.Context, id string) error
}

// AuthState reports whether a user is signed in. Owned by the auth layer,
// consulted here to gate save/history/translate access.
type AuthState interface {
	IsAuthenticated() bool
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Confirmer asks the user a blocking yes/no question. Only record deletion
// uses it.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ErrBusy is returned when an operation is re-invoked while its previous
// invocation is still in flight.
var ErrBusy = errors.New("operation already in progress")

// ValidationError is a client-side rejection raised before any service call.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// newValidationError builds a ValidationError with the given message.
func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a client-side validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Generic user-facing fallbacks used when a service failure carries no
// message of its own.
const (
	fallbackGenerate  = "Failed to generate description. Please try again."
	fallbackSave      = "Failed to save generation. Please try again."
	fallbackLoad      = "Failed to load history. Please try again."
	fallbackDelete    = "Failed to delete generation. Please try again."
	fallbackTranslate = "Failed to translate description. Please try again."
)

// userMessage prefers the service-reported error text over the per-operation
// fallback.
func userMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
