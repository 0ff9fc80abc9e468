package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-ai/inkwell-api/internal/data"
	domainauth "github.com/inkwell-ai/inkwell-api/internal/domain/auth"
	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

const (
	minPasswordLength = 8
	resetTokenTTL     = 10 * time.Minute
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    ports.UserRepository
	Sessions ports.SessionStore
	Mailer   ports.Mailer
	Logger   *slog.Logger

	// JWTSecret signs and verifies tokens (HS256).
	JWTSecret []byte
	// TokenTTL bounds both the JWT and the server-side session.
	TokenTTL time.Duration
	// ResetBaseURL prefixes the reset link mailed to users, e.g.
	// "https://app.example.com/reset-password".
	ResetBaseURL string

	Clock data.TimeProvider
}

// AuthService orchestrates registration, credential login, password reset,
// and token verification. Issued JWTs embed a session id; the matching Redis
// record is the source of truth for revocation, so deleting it (logout)
// invalidates the token before its natural expiry.
type AuthService struct {
	users        ports.UserRepository
	sessions     ports.SessionStore
	mailer       ports.Mailer
	logger       *slog.Logger
	secret       []byte
	tokenTTL     time.Duration
	resetBaseURL string
	clock        data.TimeProvider
}

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	tokenTTL := opts.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		users:        opts.Users,
		sessions:     opts.Sessions,
		mailer:       opts.Mailer,
		logger:       logger.With("component", "auth_service"),
		secret:       opts.JWTSecret,
		tokenTTL:     tokenTTL,
		resetBaseURL: strings.TrimRight(opts.ResetBaseURL, "/"),
		clock:        clock,
	}
}

// RegisterInput groups parameters for Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by every flow that issues a token.
type AuthResult struct {
	Token string
	User  *model.User
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	if name == "" {
		return nil, apperrors.ValidationField("name", "name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if createErr := s.users.Create(ctx, user); createErr != nil {
		return nil, createErr
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); bcryptErr != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// ForgotPassword generates a single-use reset token, stores its SHA-256
// digest, and mails the reset link. If the mail cannot be delivered the
// token is cleared again so a stale link never outlives the failure.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, tokenHash, err := newResetToken()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate reset token")
	}

	expiresAt := s.clock.Now().Add(resetTokenTTL)
	if setErr := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt); setErr != nil {
		return setErr
	}

	resetURL := fmt.Sprintf("%s/%s", s.resetBaseURL, token)
	body := fmt.Sprintf(
		"You requested a password reset.\n\nOpen the link below within %d minutes to choose a new password:\n\n%s\n\nIf you did not request this, ignore this message.",
		int(resetTokenTTL.Minutes()), resetURL,
	)

	if mailErr := s.mailer.Send(ctx, user.Email, "Reset your password", body); mailErr != nil {
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to clear reset token after mail failure",
				"user_id", user.ID, "err", clearErr)
		}
		return apperrors.Wrap(mailErr, apperrors.ErrCodeInternal, "send reset mail")
	}

	s.logger.InfoContext(ctx, "password reset mail sent", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token, replaces the password, and signs the
// user in. Expired or unknown tokens surface as NotFound.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*AuthResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NotFound("reset token is invalid or has expired")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	digest := sha256.Sum256([]byte(token))
	user, err := s.users.GetByResetToken(ctx, hex.EncodeToString(digest[:]))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("reset token is invalid or has expired")
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	if updateErr := s.users.UpdatePassword(ctx, user.ID, string(hash)); updateErr != nil {
		return nil, updateErr
	}
	user.PasswordHash = string(hash)

	jwtToken, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", user.ID)
	return &AuthResult{Token: jwtToken, User: user}, nil
}

// Authenticate verifies a bearer token and returns the live session behind
// it. Any parse failure, signature mismatch, expiry, or missing session
// collapses into an Unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domainauth.Session, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("session no longer valid")
		}
		return nil, err
	}

	if session.Expired(s.clock.Now()) {
		if deleteErr := s.sessions.Delete(ctx, session.ID); deleteErr != nil {
			s.logger.WarnContext(ctx, "failed to delete expired session",
				"session_id", session.ID, "err", deleteErr)
		}
		return nil, apperrors.Unauthorized("session expired")
	}

	return &session, nil
}

// Logout revokes the session behind a token. An unparseable token is not an
// error; there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}

	if deleteErr := s.sessions.Delete(ctx, claims.SessionID); deleteErr != nil {
		return fmt.Errorf("delete session: %w", deleteErr)
	}

	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, user *model.User) (string, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign token")
	}
	return token, nil
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.Unauthorized("missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("token expired")
		}
		return nil, apperrors.Unauthorized("invalid token")
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, apperrors.Unauthorized("invalid token")
	}

	return claims, nil
}

// newResetToken returns the plaintext token for the mail link and the hex
// SHA-256 digest we persist.
func newResetToken() (token, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	digest := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(digest[:]), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return apperrors.ValidationField("email", "email is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.ValidationField("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}
