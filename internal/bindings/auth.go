package bindings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/query"
)

// Auth binds the auth resource client to the session and query cache
type Auth struct {
	api     AuthAPI
	session Session
	cache   *query.Cache
}

// NewAuth creates the auth bindings
func NewAuth(authAPI AuthAPI, session Session, cache *query.Cache) *Auth {
	return &Auth{api: authAPI, session: session, cache: cache}
}

// Register creates an account. The session is untouched until the user
// verifies their email and logs in.
func (a *Auth) Register(ctx context.Context, req api.RegisterRequest) error {
	return a.api.Register(ctx, req)
}

// Login submits credentials and, on success, stores the returned profile
// together with the submitted email, which the API does not echo back.
func (a *Auth) Login(ctx context.Context, req api.LoginRequest) (*models.Profile, error) {
	resp, err := a.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	user := &models.Profile{
		PID:        resp.PID,
		Name:       resp.Name,
		Email:      strings.TrimSpace(req.Email),
		IsVerified: resp.IsVerified,
		Role:       normalizeRole(resp.Role),
	}

	if err := a.session.SetAuthenticated(true); err != nil {
		return nil, err
	}
	if err := a.session.SetUser(user); err != nil {
		return nil, err
	}
	a.cache.Invalidate(CurrentUserKey)

	return user, nil
}

// ForgotPassword requests a reset email
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	return a.api.ForgotPassword(ctx, email)
}

// ResetPassword completes a reset with the emailed token
func (a *Auth) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	return a.api.ResetPassword(ctx, req)
}

// CurrentUser fetches the server's view of the signed-in user and reconciles
// the session with it. It makes no request when the session is signed out,
// since the resulting 401 would only trigger another logout.
func (a *Auth) CurrentUser(ctx context.Context) (*models.Profile, error) {
	if !a.session.IsAuthenticated() {
		return nil, ErrSignedOut
	}

	return query.Fetch(ctx, a.cache, CurrentUserKey, func(ctx context.Context) (*models.Profile, error) {
		resp, err := a.api.Current(ctx)
		if err != nil {
			return nil, err
		}

		user := a.merge(resp)
		if err := a.session.SetUser(user); err != nil {
			return nil, err
		}
		if err := a.session.SetAuthenticated(true); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// merge builds the canonical profile from a current-user response, keeping
// the stored verification flag when the response omits it for the same user.
func (a *Auth) merge(resp *api.CurrentUserResponse) *models.Profile {
	user := &models.Profile{
		PID:   resp.PID,
		Name:  resp.Name,
		Email: resp.Email,
		Role:  normalizeRole(resp.Role),
	}

	stored := a.session.User()
	switch {
	case resp.IsVerified != nil:
		user.IsVerified = *resp.IsVerified
	case stored != nil && stored.PID == resp.PID:
		user.IsVerified = stored.IsVerified
	}
	if user.Email == "" && stored != nil && stored.PID == resp.PID {
		user.Email = stored.Email
	}

	return user
}

// Logout ends the server session and always clears the local one. A server
// failure other than 401 is returned after the local teardown.
func (a *Auth) Logout(ctx context.Context) error {
	serverErr := a.api.Logout(ctx)

	if err := a.session.Logout(); err != nil {
		return err
	}
	a.cache.Remove(CurrentUserKey)

	if serverErr != nil && !api.IsAuth(serverErr) {
		return fmt.Errorf("signed out locally, but the server logout failed: %w", serverErr)
	}
	return nil
}

// DeleteAccount removes the account and signs out
func (a *Auth) DeleteAccount(ctx context.Context) error {
	if err := a.api.Delete(ctx); err != nil {
		return err
	}

	if err := a.session.Logout(); err != nil {
		return err
	}
	a.cache.Clear()

	return nil
}

// OAuth2URL returns the Google sign-in URL
func (a *Auth) OAuth2URL(ctx context.Context) (string, error) {
	u, err := a.api.OAuth2URL(ctx)
	if err != nil {
		return "", err
	}
	if u == "" {
		return "", errors.New("the API returned an empty sign-in URL")
	}
	return u, nil
}

// normalizeRole maps API role names onto the known roles. A missing role
// means User; unknown roles pass through unchanged.
func normalizeRole(r models.Role) models.Role {
	role, err := models.ParseRole(string(r))
	if err != nil {
		return r
	}
	return role
}
