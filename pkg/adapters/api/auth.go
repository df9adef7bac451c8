package api

import (
	"context"
	"net/http"

	"github.com/aretw0/jot/pkg/core"
)

// Auth implements core.AuthService.
type Auth struct {
	c *Client
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account: POST /auth/register.
func (a *Auth) Register(ctx context.Context, username, password string) (core.Session, error) {
	var s core.Session
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     credentials{Username: username, Password: password},
		out:      &s,
		fallback: msgSignUpFailed,
	})
	return s, err
}

// Login exchanges credentials for a token: POST /auth/login.
func (a *Auth) Login(ctx context.Context, username, password string) (core.Session, error) {
	var s core.Session
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     credentials{Username: username, Password: password},
		out:      &s,
		fallback: msgSignInFailed,
	})
	return s, err
}

// Me resolves the owner of a token: GET /auth/me.
func (a *Auth) Me(ctx context.Context, token string) (core.Profile, error) {
	var p core.Profile
	err := a.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auth/me",
		token:    token,
		out:      &p,
		fallback: msgFetchUser,
	})
	return p, err
}

var _ core.AuthService = (*Auth)(nil)
