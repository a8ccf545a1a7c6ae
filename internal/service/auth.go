package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/repository"
)

// Authentication failure modes surfaced to handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 6

// TokenClaims are the JWT claims carried by access and refresh tokens.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the tokens returned by register/login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService issues and verifies credentials and JWTs.
type AuthService struct {
	users           *repository.UserRepository
	tokens          *repository.TokenRepository
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// AuthConfig holds configuration for the auth service.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// NewAuthService creates a new auth service.
// Parameters:
//   - cfg: JWT secret and token lifetimes.
//   - users: user repository.
//   - tokens: refresh token repository.
// Returns:
//   - *AuthService: initialized service.
func NewAuthService(cfg *AuthConfig, users *repository.UserRepository, tokens *repository.TokenRepository) *AuthService {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		users:           users,
		tokens:          tokens,
		secret:          []byte(cfg.JWTSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// Register creates a new account and issues a token pair.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: desired username; must be unique.
//   - email: account email; lowercased and must be unique.
//   - password: plaintext password, minimum 6 characters.
// Returns:
//   - *domain.User: created account.
//   - TokenPair: access and refresh tokens.
//   - error: ErrUsernameTaken/ErrEmailTaken or a validation/persistence error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, TokenPair{}, fmt.Errorf("username, email, and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, TokenPair{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, TokenPair{}, ErrUsernameTaken
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, TokenPair{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a token pair.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: account username.
//   - password: plaintext password.
// Returns:
//   - *domain.User: authenticated account.
//   - TokenPair: access and refresh tokens.
//   - error: ErrInvalidCredentials on any mismatch.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token against stored hashes and issues a new
// access token.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - refreshToken: refresh JWT previously issued by this service.
// Returns:
//   - string: new access token.
//   - error: ErrInvalidToken or ErrUserNotFound.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return "", err
	}
	if !s.refreshTokenStored(ctx, claims.UserID, refreshToken) {
		return "", ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	return s.signToken(user.ID, user.Username, "access", s.accessTokenTTL)
}

// Logout revokes the stored refresh token if it is still valid. Invalid or
// already-expired tokens are ignored so logout always succeeds.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - refreshToken: refresh JWT to revoke; may be empty.
// Returns: none.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return
	}
	stored, err := s.tokens.ListActiveByUser(ctx, claims.UserID)
	if err != nil {
		return
	}
	for _, t := range stored {
		if tokenHashMatches(t.TokenHash, refreshToken) {
			_ = s.tokens.Revoke(ctx, t.TokenID)
			return
		}
	}
}

// GetUser retrieves an account by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: account ID.
// Returns:
//   - *domain.User: account if found.
//   - error: ErrUserNotFound if missing.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// VerifyAccessToken parses and validates an access JWT.
// Parameters:
//   - token: bearer token from the Authorization header.
// Returns:
//   - *TokenClaims: decoded claims if valid.
//   - error: ErrInvalidToken otherwise.
func (s *AuthService) VerifyAccessToken(token string) (*TokenClaims, error) {
	return s.parseToken(token, "access")
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := s.signToken(user.ID, user.Username, "access", s.accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.signToken(user.ID, "", "refresh", s.refreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	// Hash the refresh token before storing so a database leak cannot be
	// replayed
	if err := s.tokens.Create(ctx, &domain.RefreshToken{
		TokenID:   uuid.New().String(),
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}); err != nil {
		return TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(userID, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(token, tokenType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) refreshTokenStored(ctx context.Context, userID, token string) bool {
	stored, err := s.tokens.ListActiveByUser(ctx, userID)
	if err != nil {
		return false
	}
	for _, t := range stored {
		if tokenHashMatches(t.TokenHash, token) {
			return true
		}
	}
	return false
}

// hashToken returns the hex SHA-256 digest under which a refresh token is
// stored. Refresh tokens are signed JWTs, well past bcrypt's 72-byte input
// limit, and carry enough entropy that a fast digest blocks replay from a
// leaked database.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func tokenHashMatches(stored, token string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashToken(token))) == 1
}
