package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// UserRepository handles user account data operations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *UserRepository: repository instance bound to db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - user: user record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: user ID.
// Returns:
//   - *domain.User: user record if found.
//   - error: non-nil if lookup fails.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: username to match exactly.
// Returns:
//   - *domain.User: user record if found.
//   - error: non-nil if lookup fails.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - email: email to match exactly (stored lowercased).
// Returns:
//   - *domain.User: user record if found.
//   - error: non-nil if lookup fails.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername checks if a username is already taken.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: username to check.
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail checks if an email is already registered.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - email: email to check.
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
