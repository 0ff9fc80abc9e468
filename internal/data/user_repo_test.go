package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/testutil"
)

func insertTestUser(t *testing.T, repo *UserRepo, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Test Writer",
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		created := insertTestUser(t, repo, "writer@example.com")
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.GetByEmail(ctx, "writer@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.PasswordHash, got.PasswordHash)
		assert.Empty(t, got.ResetTokenHash)
		assert.Nil(t, got.ResetTokenExpires)
	})
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		insertTestUser(t, repo, "writer@example.com")

		dup := &model.User{
			ID:           uuid.NewString(),
			Name:         "Someone Else",
			Email:        "writer@example.com",
			PasswordHash: "hash",
		}
		err := repo.Create(context.Background(), dup)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_ResetTokenLifecycle(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		user := insertTestUser(t, repo, "writer@example.com")
		const tokenHash = "aaaa1111bbbb2222"

		require.NoError(t, repo.SetResetToken(ctx, user.ID, tokenHash, time.Now().Add(10*time.Minute)))

		got, err := repo.GetByResetToken(ctx, tokenHash)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, tokenHash, got.ResetTokenHash)
		require.NotNil(t, got.ResetTokenExpires)

		require.NoError(t, repo.ClearResetToken(ctx, user.ID))

		_, err = repo.GetByResetToken(ctx, tokenHash)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_GetByResetToken_Expired(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		user := insertTestUser(t, repo, "writer@example.com")
		const tokenHash = "expired-token-hash"

		require.NoError(t, repo.SetResetToken(ctx, user.ID, tokenHash, time.Now().Add(-time.Minute)))

		_, err := repo.GetByResetToken(ctx, tokenHash)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_SetResetToken_UnknownUser(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		err := repo.SetResetToken(context.Background(), uuid.NewString(), "hash", time.Now().Add(time.Minute))
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_UpdatePassword_ClearsResetToken(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		user := insertTestUser(t, repo, "writer@example.com")
		const tokenHash = "pending-token-hash"
		require.NoError(t, repo.SetResetToken(ctx, user.ID, tokenHash, time.Now().Add(10*time.Minute)))

		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)
		assert.Empty(t, got.ResetTokenHash)
		assert.Nil(t, got.ResetTokenExpires)

		_, err = repo.GetByResetToken(ctx, tokenHash)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_UpdatePassword_UnknownUser(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		err := repo.UpdatePassword(context.Background(), uuid.NewString(), "hash")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
