package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coderRohan123/tempdescription/internal/api/middleware"
	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/service"
)

// AuthHandler handles registration, login, and token lifecycle endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
// Parameters:
//   - auth: auth service instance.
// Returns:
//   - *AuthHandler: initialized handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func userPayload(user *domain.User) gin.H {
	return gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}

// Register handles POST /api/auth/register.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, pair, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrUsernameTaken) && !errors.Is(err, service.ErrEmailTaken) {
			// Validation errors share the 400 path; anything else is internal
			switch err.Error() {
			case "username, email, and password are required",
				"password must be at least 6 characters":
			default:
				status = http.StatusInternalServerError
			}
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "User registered successfully",
		"user":          userPayload(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Login handles POST /api/auth/login.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"user":          userPayload(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh handles POST /api/auth/refresh.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	access, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// Logout handles POST /api/auth/logout. It never fails: the client clears
// local storage regardless, and an already-invalid token needs no revocation.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	h.auth.Logout(c.Request.Context(), req.RefreshToken)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload := userPayload(user)
	payload["created_at"] = user.CreatedAt
	c.JSON(http.StatusOK, gin.H{"user": payload})
}
