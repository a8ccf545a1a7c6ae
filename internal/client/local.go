package client

import (
	"context"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/service"
	"github.com/coderRohan123/tempdescription/internal/session"
)

// Local is the in-process binding of the workflow service contracts: it
// wires the session state machines straight to the services, bypassing HTTP.
// The generation and translation services already match their contracts;
// Local binds the history service to one user so the Store contract holds.
type Local struct {
	*service.GeminiService
	history *service.HistoryService
	userID  string
}

var (
	_ session.Generator  = (*Local)(nil)
	_ session.Translator = (*Local)(nil)
	_ session.Store      = (*Local)(nil)
	_ session.AuthState  = (*Local)(nil)
)

// NewLocal creates an in-process binding for one user.
// Parameters:
//   - gemini: generation and translation service.
//   - history: persistence service.
//   - userID: user all store operations act as; empty means signed out.
// Returns:
//   - *Local: initialized binding.
func NewLocal(gemini *service.GeminiService, history *service.HistoryService, userID string) *Local {
	return &Local{
		GeminiService: gemini,
		history:       history,
		userID:        userID,
	}
}

// IsAuthenticated reports whether the binding carries a user.
// Parameters: none.
// Returns:
//   - bool: true when a user ID is bound.
func (l *Local) IsAuthenticated() bool {
	return l.userID != ""
}

// SaveGeneration persists a generation for the bound user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - attrs: attributes the description was generated from.
//   - finalDescription: accepted description text.
//   - imageURLs: stored image references to persist.
// Returns:
//   - session.SaveResult: record ID and create-vs-overwrite flag.
//   - error: non-nil if persistence fails.
func (l *Local) SaveGeneration(ctx context.Context, attrs domain.GenerationAttributes, finalDescription string, imageURLs []string) (session.SaveResult, error) {
	res, err := l.history.Save(ctx, l.userID, attrs, finalDescription, imageURLs)
	if err != nil {
		return session.SaveResult{}, err
	}
	return session.SaveResult{ID: res.ID, Updated: res.Updated}, nil
}

// ListGenerations lists the bound user's saved generations, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Generation: saved records.
//   - error: non-nil if the query fails.
func (l *Local) ListGenerations(ctx context.Context) ([]domain.Generation, error) {
	return l.history.List(ctx, l.userID)
}

// DeleteGeneration soft-deletes one of the bound user's generations.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: record ID to delete.
// Returns:
//   - error: service.ErrGenerationNotFound if no active owned record matches.
func (l *Local) DeleteGeneration(ctx context.Context, id string) error {
	return l.history.Delete(ctx, l.userID, id)
}
