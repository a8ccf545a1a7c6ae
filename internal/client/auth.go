package client

import (
	"context"
)

type userPayload struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
	errorResponse
}

// Session holds the tokens and user identity returned by login or register.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Username     string
	Email        string
}

// Register creates an account and signs the client in.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: desired username.
//   - email: account email.
//   - password: plaintext password, at least 6 characters.
// Returns:
//   - Session: issued tokens and user identity.
//   - error: non-nil if registration fails.
func (c *Client) Register(ctx context.Context, username, email, password string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login exchanges credentials for tokens and signs the client in.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - username: account username.
//   - password: plaintext password.
// Returns:
//   - Session: issued tokens and user identity.
//   - error: non-nil if the credentials are rejected.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Refresh exchanges a refresh token for a fresh token pair.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - refreshToken: previously issued refresh token.
// Returns:
//   - Session: rotated tokens and user identity.
//   - error: non-nil if the token is invalid or revoked.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
}

// Logout revokes the refresh token server-side and clears the access token.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - refreshToken: token to revoke; may be empty.
// Returns:
//   - error: non-nil only on transport failure.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	var resp errorResponse
	httpResp, err := c.request(ctx).
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetError(&resp).
		Post("/api/auth/logout")
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return err
	}
	c.SetAccessToken("")
	return nil
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (Session, error) {
	var resp tokenResponse
	httpResp, err := c.request(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(path)
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return Session{}, err
	}

	c.SetAccessToken(resp.AccessToken)
	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Username:     resp.User.Username,
		Email:        resp.User.Email,
	}, nil
}
