package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
)

// SessionCommitter is the part of SessionService the account flows write through.
type SessionCommitter interface {
	Login(ctx context.Context, user domainauth.User, role domainauth.Role, token string) error
	Logout(ctx context.Context) error
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API     ports.AuthAPI    // Required
	Session SessionCommitter // Required
	Logger  *slog.Logger     // Optional
}

// AuthService runs the account flows: login, registration and password reset.
type AuthService struct {
	api     ports.AuthAPI
	session SessionCommitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.API == nil {
		panic("AuthService requires an API")
	}
	if opts.Session == nil {
		panic("AuthService requires a Session")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:     opts.API,
		session: opts.Session,
		logger:  logger.With("component", "auth_service"),
		now:     time.Now,
	}
}

// LoginResult is what the login page needs to redirect.
type LoginResult struct {
	UserName    string
	Role        domainauth.Role
	LandingPath string
}

// Login authenticates against the API and commits the session, token included.
// The session is unchanged when either step fails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := model.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Rejected() {
		msg := resp.Message
		if msg == "" {
			msg = "Login Failed"
		}
		return nil, apperrors.Unauthenticated(msg)
	}

	user := userFromLogin(resp, req.Email)
	role := domainauth.DeriveRole(&user, resp.Role)

	if err := s.session.Login(ctx, user, role, resp.Token); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "user", user.UserName, "role", role)
	return &LoginResult{
		UserName:    user.UserName,
		Role:        role,
		LandingPath: nav.LandingPath(role),
	}, nil
}

// userFromLogin prefers the user object when the API sends one, then userName, then the email.
func userFromLogin(resp model.LoginResponse, email string) domainauth.User {
	var user domainauth.User
	if resp.User != nil {
		if b, err := json.Marshal(resp.User); err == nil {
			user, _ = domainauth.DecodeUser(string(b), resp.Role)
		}
	}
	if user.UserName == "" {
		user.UserName = resp.UserName
	}
	if user.UserName == "" {
		user.UserName = email
	}
	if !user.Role.Known() {
		user.Role = domainauth.ParseRole(resp.Role)
	}
	return user
}

// Register validates the form and creates the account. It does not log in.
// It returns the server's confirmation message.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if err := model.Validate(req); err != nil {
		return "", err
	}

	resp, err := s.api.Register(ctx, req.Payload(s.now()))
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Account creation failed"
		}
		return "", apperrors.RemoteRejection(0, msg)
	}

	s.logger.InfoContext(ctx, "account registered", "role", req.Role)
	if resp.Message == "" {
		return "Account created successfully!", nil
	}
	return resp.Message, nil
}

// RequestPasswordReset asks the API to email a reset code.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	req := model.PasswordResetRequest{Email: strings.TrimSpace(email)}
	if err := model.Validate(req); err != nil {
		return err
	}
	if err := s.api.RequestPasswordReset(ctx, req); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// VerifyResetCode checks the emailed code.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	req := model.VerifyResetCodeRequest{Email: strings.TrimSpace(email), ResetCode: strings.TrimSpace(code)}
	if err := model.Validate(req); err != nil {
		return err
	}
	if err := s.api.VerifyResetCode(ctx, req); err != nil {
		return fmt.Errorf("verify reset code: %w", err)
	}
	return nil
}

// ResetPassword sets a new password. confirm must match newPassword.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword, confirm string) error {
	req := model.ResetPasswordRequest{
		Email:           strings.TrimSpace(email),
		ResetCode:       strings.TrimSpace(code),
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	}
	if err := model.Validate(req); err != nil {
		return err
	}
	if err := s.api.ResetPassword(ctx, req); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}
