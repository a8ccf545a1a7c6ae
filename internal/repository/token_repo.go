package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// TokenRepository handles refresh token storage.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *TokenRepository: repository instance bound to db.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores the hash of an issued refresh token.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - token: refresh token record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *TokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// ListActiveByUser retrieves a user's unrevoked, unexpired refresh tokens.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - []domain.RefreshToken: matching token records.
//   - error: non-nil if the query fails.
func (r *TokenRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	var tokens []domain.RefreshToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// Revoke marks a stored refresh token as revoked.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - tokenID: primary key of the stored token.
// Returns:
//   - error: non-nil if the update fails.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("token_id = ?", tokenID).
		Update("revoked_at", &now).Error
}

// DeleteExpired removes tokens past their expiry. Intended for periodic
// cleanup; login and refresh never depend on it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: rows removed.
//   - error: non-nil if the delete fails.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&domain.RefreshToken{})
	return result.RowsAffected, result.Error
}
