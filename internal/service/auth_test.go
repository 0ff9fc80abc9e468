package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell-api/internal/data"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	mocks "github.com/inkwell-ai/inkwell-api/internal/mocks/auth"
)

const testResetBaseURL = "https://inkwell.test/reset-password"

type authFixture struct {
	service  *AuthService
	users    *mocks.MemoryUserRepo
	sessions *mocks.MemorySessionStore
	mailer   *mocks.RecordingMailer
	clock    *data.FixedTimeProvider
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := mocks.NewMemoryUserRepo()
	sessions := mocks.NewMemorySessionStore()
	mailer := mocks.NewRecordingMailer()
	clock := data.NewFixedTimeProvider(time.Now())

	service := NewAuthService(AuthServiceOptions{
		Users:        users,
		Sessions:     sessions,
		Mailer:       mailer,
		JWTSecret:    []byte("test-secret"),
		TokenTTL:     time.Hour,
		ResetBaseURL: testResetBaseURL,
		Clock:        clock,
	})

	return &authFixture{
		service:  service,
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		clock:    clock,
	}
}

func (f *authFixture) register(t *testing.T) *AuthResult {
	t.Helper()
	result, err := f.service.Register(context.Background(), RegisterInput{
		Name:     "Test Writer",
		Email:    "writer@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return result
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)

	result := f.register(t)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "writer@example.com", result.User.Email)
	assert.NotEqual(t, "correct horse", result.User.PasswordHash)
	assert.Equal(t, 1, f.sessions.Len())

	// The issued token authenticates immediately.
	session, err := f.service.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, session.UserID)
	assert.Equal(t, "Test Writer", session.Name)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.service.Register(context.Background(), RegisterInput{
		Name:     "Test Writer",
		Email:    "  Writer@Example.COM ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "writer@example.com", result.User.Email)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.service.Register(context.Background(), RegisterInput{
		Name:     "Other Writer",
		Email:    "writer@example.com",
		Password: "another pass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "longenough"}, "name"},
		{"missing email", RegisterInput{Name: "A", Password: "longenough"}, "email"},
		{"malformed email", RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"}, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Register(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	result, err := f.service.Login(context.Background(), "writer@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	session, err := f.service.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, session.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.service.Login(context.Background(), "writer@example.com", "wrong password")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Login_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, wrongPass := f.service.Login(context.Background(), "writer@example.com", "wrong password")
	_, unknown := f.service.Login(context.Background(), "nobody@example.com", "wrong password")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.True(t, apperrors.IsUnauthorized(unknown))
}

func TestAuthService_Authenticate_TamperedToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	tampered := result.Token[:len(result.Token)-2] + "xx"
	_, err := f.service.Authenticate(context.Background(), tampered)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	f.clock.AddTime(2 * time.Hour)

	_, err := f.service.Authenticate(context.Background(), result.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	require.NoError(t, f.service.Logout(context.Background(), result.Token))

	// The JWT is still within its lifetime, but the session is gone.
	_, err := f.service.Authenticate(context.Background(), result.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, f.sessions.Len())
}

func TestAuthService_Logout_GarbageToken_IsNoOp(t *testing.T) {
	f := newAuthFixture(t)

	assert.NoError(t, f.service.Logout(context.Background(), "not-a-jwt"))
}

// resetTokenFromMail pulls the plaintext token out of the mailed reset link.
func resetTokenFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, testResetBaseURL+"/")
	require.GreaterOrEqual(t, idx, 0, "mail body should contain the reset link")
	rest := body[idx+len(testResetBaseURL)+1:]
	if end := strings.IndexAny(rest, " \n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func TestAuthService_ForgotPassword_SendsTokenMail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "writer@example.com"))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "writer@example.com", sent[0].To)

	token := resetTokenFromMail(t, sent[0].Body)
	assert.Len(t, token, 64) // 32 random bytes, hex encoded

	// The plaintext token is never stored.
	result, err := f.service.ResetPassword(context.Background(), token, "brand new pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ForgotPassword(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_ForgotPassword_MailFailureClearsToken(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t)
	f.mailer.SendErr = errors.New("relay down")

	err := f.service.ForgotPassword(context.Background(), "writer@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))

	user, ok := f.users.Snapshot(registered.User.ID)
	require.True(t, ok)
	assert.Empty(t, user.ResetTokenHash)
	assert.Nil(t, user.ResetTokenExpires)
}

func TestAuthService_ResetPassword_Flow(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "writer@example.com"))
	token := resetTokenFromMail(t, f.mailer.Sent()[0].Body)

	result, err := f.service.ResetPassword(context.Background(), token, "brand new pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// Old password is dead, new one works.
	_, err = f.service.Login(context.Background(), "writer@example.com", "correct horse")
	assert.True(t, apperrors.IsUnauthorized(err))
	_, err = f.service.Login(context.Background(), "writer@example.com", "brand new pass")
	assert.NoError(t, err)

	// The token is single use.
	_, err = f.service.ResetPassword(context.Background(), token, "yet another pass")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	// Issue the token from a clock an hour in the past so its expiry is
	// already behind real time when the repository checks it.
	f.clock.SetTime(time.Now().Add(-time.Hour))
	require.NoError(t, f.service.ForgotPassword(context.Background(), "writer@example.com"))
	token := resetTokenFromMail(t, f.mailer.Sent()[0].Body)

	_, err := f.service.ResetPassword(context.Background(), token, "brand new pass")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_ResetPassword_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.ResetPassword(context.Background(), "deadbeef", "brand new pass")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_ResetPassword_ShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.ResetPassword(context.Background(), "sometoken", "short")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "password", apperrors.GetField(err))
}
