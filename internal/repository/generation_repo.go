package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// listLimit caps how many history records a single list call returns.
const listLimit = 50

// GenerationRepository handles generation history data operations.
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new GenerationRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *GenerationRepository: repository instance bound to db.
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a new generation record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - gen: generation record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *GenerationRepository) Create(ctx context.Context, gen *domain.Generation) error {
	return r.db.WithContext(ctx).Create(gen).Error
}

// Update overwrites an existing generation record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - gen: generation record with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *GenerationRepository) Update(ctx context.Context, gen *domain.Generation) error {
	return r.db.WithContext(ctx).Save(gen).Error
}

// GetByID retrieves an active generation owned by a user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - id: generation ID.
// Returns:
//   - *domain.Generation: record if found.
//   - error: gorm.ErrRecordNotFound if missing, deleted, or not owned.
func (r *GenerationRepository) GetByID(ctx context.Context, userID, id string) (*domain.Generation, error) {
	var gen domain.Generation
	if err := r.db.WithContext(ctx).
		First(&gen, "id = ? AND user_id = ? AND data_status = ?", id, userID, domain.DataStatusActive).Error; err != nil {
		return nil, err
	}
	return &gen, nil
}

// GetActiveByProductName retrieves a user's active generation matching a
// product name. Save-or-update keys on this lookup.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - productName: product name to match exactly.
// Returns:
//   - *domain.Generation: record if found.
//   - error: gorm.ErrRecordNotFound if no active record matches.
func (r *GenerationRepository) GetActiveByProductName(ctx context.Context, userID, productName string) (*domain.Generation, error) {
	var gen domain.Generation
	if err := r.db.WithContext(ctx).
		First(&gen, "user_id = ? AND product_name = ? AND data_status = ?", userID, productName, domain.DataStatusActive).Error; err != nil {
		return nil, err
	}
	return &gen, nil
}

// ListByUser retrieves a user's active generations, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - []domain.Generation: matching records, at most listLimit.
//   - error: non-nil if the query fails.
func (r *GenerationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Generation, error) {
	var gens []domain.Generation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_status = ?", userID, domain.DataStatusActive).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&gens).Error; err != nil {
		return nil, err
	}
	return gens, nil
}

// SoftDelete marks a generation as deleted without removing the row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - id: generation ID to delete.
// Returns:
//   - error: gorm.ErrRecordNotFound if no active owned record matches.
func (r *GenerationRepository) SoftDelete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Generation{}).
		Where("id = ? AND user_id = ? AND data_status = ?", id, userID, domain.DataStatusActive).
		Update("data_status", domain.DataStatusDeleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
