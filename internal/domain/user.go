package domain

import "time"

// User represents a registered account.
type User struct {
	ID           string    `gorm:"type:text;primaryKey" json:"user_id"`
	Username     string    `gorm:"type:text;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName returns the database table name for User.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (User) TableName() string {
	return "users"
}

// RefreshToken stores the bcrypt hash of an issued refresh token so it can
// be revoked before its JWT expiry.
type RefreshToken struct {
	TokenID   string     `gorm:"type:text;primaryKey" json:"token_id"`
	UserID    string     `gorm:"type:text;not null;index:idx_refresh_tokens_user" json:"user_id"`
	TokenHash string     `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the database table name for RefreshToken.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
