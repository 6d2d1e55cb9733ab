package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/testutil"
)

func TestUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.NewDB(t))
	seedUser(t, repo, "alice")

	err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x", JoinedAt: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.NewDB(t))
	alice := seedUser(t, repo, "alice")

	got, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindByID(ctx, alice.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "someone", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "someone", "someone@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.NewDB(t))

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx UserRepository) error {
		if err := tx.Create(ctx, &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", JoinedAt: time.Now()}); err != nil {
			return err
		}
		return tx.Create(ctx, &model.User{Username: "bob", Email: "bob2@example.com", PasswordHash: "x", JoinedAt: time.Now()})
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
