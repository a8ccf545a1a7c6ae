package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/logger"
	"github.com/coderRohan123/tempdescription/internal/repository"
)

// ErrGenerationNotFound is returned when a generation does not exist, was
// deleted, or is owned by another user.
var ErrGenerationNotFound = errors.New("generation not found or access denied")

// SaveResult reports the outcome of a save call: the record ID and whether
// an existing record was overwritten rather than created.
type SaveResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

// HistoryService manages a user's saved generations.
type HistoryService struct {
	generations *repository.GenerationRepository
}

// NewHistoryService creates a new history service.
// Parameters:
//   - generations: generation repository.
// Returns:
//   - *HistoryService: initialized service.
func NewHistoryService(generations *repository.GenerationRepository) *HistoryService {
	return &HistoryService{generations: generations}
}

// List returns the user's active generations, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - []domain.Generation: saved records.
//   - error: non-nil if the query fails.
func (s *HistoryService) List(ctx context.Context, userID string) ([]domain.Generation, error) {
	gens, err := s.generations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return gens, nil
}

// Save persists a generation, overwriting the user's existing active record
// with the same product name if one exists. The matched record keeps its
// identity; every other stored field is replaced.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - attrs: attributes the description was generated from.
//   - finalDescription: accepted description text.
//   - imageURLs: stored image references; nil is persisted as empty.
// Returns:
//   - SaveResult: record ID and create-vs-overwrite flag.
//   - error: non-nil if validation or persistence fails.
func (s *HistoryService) Save(ctx context.Context, userID string, attrs domain.GenerationAttributes, finalDescription string, imageURLs []string) (SaveResult, error) {
	if attrs.ProductName == "" || finalDescription == "" {
		return SaveResult{}, fmt.Errorf("product name and description are required")
	}
	if imageURLs == nil {
		imageURLs = []string{}
	}

	existing, err := s.generations.GetActiveByProductName(ctx, userID, attrs.ProductName)
	switch {
	case err == nil:
		existing.ProductCategory = attrs.ProductCategory
		existing.TargetAudience = attrs.TargetAudience
		existing.UserDescription = attrs.UserDescription
		existing.TargetLanguage = attrs.TargetLanguage
		existing.ImageURLs = imageURLs
		existing.FinalDescription = finalDescription
		if err := s.generations.Update(ctx, existing); err != nil {
			return SaveResult{}, fmt.Errorf("failed to update generation: %w", err)
		}
		logger.CtxInfo(ctx, "Generation updated: id=%s", existing.ID)
		return SaveResult{ID: existing.ID, Updated: true}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		gen := &domain.Generation{
			ID:               uuid.New().String(),
			UserID:           userID,
			ProductName:      attrs.ProductName,
			ProductCategory:  attrs.ProductCategory,
			TargetAudience:   attrs.TargetAudience,
			UserDescription:  attrs.UserDescription,
			TargetLanguage:   attrs.TargetLanguage,
			ImageURLs:        imageURLs,
			FinalDescription: finalDescription,
			DataStatus:       domain.DataStatusActive,
		}
		if err := s.generations.Create(ctx, gen); err != nil {
			return SaveResult{}, fmt.Errorf("failed to save generation: %w", err)
		}
		logger.CtxInfo(ctx, "Generation saved: id=%s", gen.ID)
		return SaveResult{ID: gen.ID, Updated: false}, nil

	default:
		return SaveResult{}, fmt.Errorf("failed to check existing generation: %w", err)
	}
}

// Delete soft-deletes a generation after verifying ownership.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - id: generation ID to delete.
// Returns:
//   - error: ErrGenerationNotFound if no active owned record matches.
func (s *HistoryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.generations.SoftDelete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenerationNotFound
		}
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	logger.CtxInfo(ctx, "Generation deleted: id=%s", id)
	return nil
}
