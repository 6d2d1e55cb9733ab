package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/repository"
	"learnjournal/internal/testutil"
)

type fixture struct {
	users    repository.UserRepository
	entries  repository.EntryRepository
	userSvc  UserService
	entrySvc EntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	entries := repository.NewEntryRepository(db)
	return &fixture{
		users:    users,
		entries:  entries,
		userSvc:  NewUserService(users, entries, bcrypt.MinCost),
		entrySvc: NewEntryService(entries, nil),
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"test_user0", "test_user1"} {
		_, err := f.userSvc.CreateUser(ctx, name, name+"@email.com", "test_password", false)
		require.NoError(t, err)
	}

	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	u, err := f.users.FindByEmail(ctx, "test_user0@email.com")
	require.NoError(t, err)
	assert.NotEqual(t, "test_password", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("test_password")))
	assert.False(t, u.IsAdmin)
	assert.False(t, u.JoinedAt.IsZero())
}

func TestUserService_CreateDuplicateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{name: "same username", username: "alice", email: "other@x.com"},
		{name: "same email", username: "bob", email: "alice@x.com"},
		{name: "same email different case", username: "bob", email: " Alice@X.com "},
		{name: "both", username: "alice", email: "alice@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.userSvc.CreateUser(ctx, tt.username, tt.email, "password", false)
			assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
			assert.Nil(t, user)

			count, err := f.users.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestUserService_VerifyLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	user, ok, err := f.userSvc.VerifyLogin(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, created.ID, user.ID)

	_, ok, err = f.userSvc.VerifyLogin(ctx, "ALICE@x.com", "pw123")
	require.NoError(t, err)
	assert.True(t, ok)

	user, ok, err = f.userSvc.VerifyLogin(ctx, "alice@x.com", "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, user)

	_, ok, err = f.userSvc.VerifyLogin(ctx, "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, ok)
}

func TestUserService_VerifyLogin_UnknownEmailStillHashes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	svc := f.userSvc.(*userService)
	cost, err := bcrypt.Cost(svc.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	var compared [][]byte
	svc.compare = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, ok, err := svc.VerifyLogin(ctx, "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, ok)
	require.Len(t, compared, 1)
	assert.Equal(t, svc.dummyHash, compared[0])

	_, ok, err = svc.VerifyLogin(ctx, "alice@x.com", "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, compared, 2)
}

func TestUserService_Bootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.userSvc.Bootstrap(ctx, "admin", "admin@x.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)

	again, err := f.userSvc.Bootstrap(ctx, "admin", "admin@x.com", "secret")
	assert.NoError(t, err)
	assert.Nil(t, again)

	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserService_JournalIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw", false)
	require.NoError(t, err)
	bob, err := f.userSvc.CreateUser(ctx, "bob", "bob@x.com", "pw", false)
	require.NoError(t, err)

	_, err = f.entrySvc.CreateEntry(ctx, EntryInput{Title: "Alice 1", Date: date("2017-01-01"), Tags: "go"}, alice.ID)
	require.NoError(t, err)
	_, err = f.entrySvc.CreateEntry(ctx, EntryInput{Title: "Alice 2", Date: date("2017-01-05"), Tags: "rust"}, alice.ID)
	require.NoError(t, err)
	_, err = f.entrySvc.CreateEntry(ctx, EntryInput{Title: "Bob 1", Date: date("2017-01-03"), Tags: "go"}, bob.ID)
	require.NoError(t, err)

	journal, err := f.userSvc.GetJournal(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, journal, 2)
	assert.Equal(t, "Alice 2", journal[0].Title)
	for _, e := range journal {
		assert.Equal(t, alice.ID, e.UserID)
	}

	tagged, err := f.userSvc.GetTaggedJournal(ctx, alice.ID, "go")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Alice 1", tagged[0].Title)

	empty, err := f.userSvc.GetJournal(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
