package client

import (
	"context"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and saves the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, "POST", "/api/auth/login", false, credentials{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	c.Sessions.Save(&session)
	return &session, nil
}

// Register creates an account. It does not log in; callers follow up
// with Login.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, "POST", "/api/auth/register", false,
		registration{Name: name, Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AutoLogin obtains a session for an arbitrary user. Only available
// when the server runs in dev mode.
func (c *Client) AutoLogin(ctx context.Context, userID int64) (*Session, error) {
	var session Session
	err := c.do(ctx, "POST", "/api/auth/auto-login", false, map[string]int64{"userId": userID}, &session)
	if err != nil {
		return nil, err
	}
	c.Sessions.Save(&session)
	return &session, nil
}

// Logout revokes the current token and clears the session. The local
// session is cleared even if the revocation call fails; a stale token
// on the server is strictly less harmful than a stale local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "POST", "/api/auth/logout", true, nil, nil)
	c.Sessions.Clear()
	return err
}

// Me fetches the authenticated profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "GET", "/api/users/me", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type profileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile changes the profile. Changing the email changes the
// credential subject: the server revokes the token and this client
// drops the session, so the caller must re-authenticate.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*model.User, error) {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	var user model.User
	if err := c.do(ctx, "PUT", "/api/users/me", true, profileUpdate{Name: name, Email: email}, &user); err != nil {
		return nil, err
	}

	if session.Identity.Email != user.Email {
		c.Sessions.Clear()
	} else {
		c.Sessions.Save(&Session{Token: session.Token, Identity: &user})
	}
	return &user, nil
}
