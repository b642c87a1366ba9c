package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AyloRyd/taskhub/internal/models"
)

// MinPasswordLength mirrors the API's password policy
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterRequest holds the data needed to create an account
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"` // checked locally when non-empty
}

// Validate applies the client-side form rules
func (r RegisterRequest) Validate() error {
	fields := make(map[string][]string)
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = append(fields["name"], "Field is required.")
	}
	validateEmail(fields, r.Email)
	validatePassword(fields, r.Password, r.ConfirmPassword)
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// LoginRequest holds submitted credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present
func (r LoginRequest) Validate() error {
	fields := make(map[string][]string)
	validateEmail(fields, r.Email)
	if r.Password == "" {
		fields["password"] = []string{"Field is required."}
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// LoginResponse is the login payload; email is deliberately not echoed back
type LoginResponse struct {
	PID        string      `json:"pid"`
	Name       string      `json:"name"`
	IsVerified bool        `json:"is_verified"`
	Role       models.Role `json:"role"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate applies the client-side form rules
func (r ResetPasswordRequest) Validate() error {
	fields := make(map[string][]string)
	if strings.TrimSpace(r.Token) == "" {
		fields["token"] = []string{"Reset token is missing."}
	}
	validatePassword(fields, r.Password, r.ConfirmPassword)
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// CurrentUserResponse is /auth/current. IsVerified is a pointer because some
// API revisions leave it out.
type CurrentUserResponse struct {
	PID        string      `json:"pid"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	IsVerified *bool       `json:"is_verified"`
	Role       models.Role `json:"role"`
}

func validateEmail(fields map[string][]string, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		fields["email"] = append(fields["email"], "Field is required.")
	case !emailRegex.MatchString(strings.TrimSpace(email)):
		fields["email"] = append(fields["email"], "Invalid email address.")
	}
}

func validatePassword(fields map[string][]string, password, confirm string) {
	switch {
	case password == "":
		fields["password"] = append(fields["password"], "Field is required.")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		fields["password"] = append(fields["password"], "Password must be at least 6 characters.")
	}
	if confirm != "" && confirm != password {
		fields["confirm_password"] = append(fields["confirm_password"], "Passwords do not match.")
	}
}

// AuthService wraps the /auth and /oauth2 endpoints
type AuthService struct {
	public  *Client // no cookies
	session *Client // cookie-bearing
}

// NewAuthService creates the auth resource client. Register, forgot, reset and
// the OAuth URL go through public; login, current, logout and delete need the
// session cookie and go through session.
func NewAuthService(public, session *Client) *AuthService {
	return &AuthService{public: public, session: session}
}

// Register creates an account. The API sends a verification email.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return err
	}
	return s.public.Do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Login submits credentials; on success the session cookie lands in the jar
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := s.session.Do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the API to email a reset link. The API answers the same
// way whether or not the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	fields := make(map[string][]string)
	validateEmail(fields, email)
	if len(fields) > 0 {
		return NewValidationError(fields)
	}

	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	return s.public.Do(ctx, http.MethodPost, "/auth/forgot", payload, nil)
}

// ResetPassword sets a new password using the emailed token
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.public.Do(ctx, http.MethodPost, "/auth/reset", req, nil)
}

// Current fetches the profile of the session's principal
func (s *AuthService) Current(ctx context.Context) (*CurrentUserResponse, error) {
	var resp CurrentUserResponse
	if err := s.session.Do(ctx, http.MethodGet, "/auth/current", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes the signed-in account
func (s *AuthService) Delete(ctx context.Context) error {
	return s.session.Do(ctx, http.MethodDelete, "/auth/delete", nil, nil)
}

// Logout ends the server-side session
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// OAuth2URL returns the Google sign-in URL to open in a browser
func (s *AuthService) OAuth2URL(ctx context.Context) (string, error) {
	var u string
	if err := s.public.Do(ctx, http.MethodGet, "/oauth2/google", nil, &u); err != nil {
		return "", err
	}
	return u, nil
}
