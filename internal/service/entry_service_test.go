package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnjournal/internal/auth"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/slug"
)

func helloWorld() EntryInput {
	return EntryInput{
		Title:     "Hello World",
		Date:      date("2016-12-23"),
		TimeSpent: "40 Hours",
		Learning:  "learning",
		Resources: "resources",
		Tags:      "go, rust",
	}
}

func TestEntryService_CreateEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	created, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := f.entrySvc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", found.Slug)
	assert.Equal(t, slug.Make(found.Title), found.Slug)
	assert.Equal(t, alice.ID, found.UserID)
	require.NotNil(t, found.User)
	assert.Equal(t, "alice", found.User.Username)
	assert.Equal(t, "go,rust", found.Tags)
	assert.Equal(t, "40 Hours", found.TimeSpent)
	assert.Equal(t, "2016-12-23", found.Date.Format(model.DateLayout))
}

func TestEntryService_SlugsNeedNotBeUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	a, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)
	b, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Slug, b.Slug)
}

func TestEntryService_UpdateEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	entry, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)

	t.Run("same title keeps slug", func(t *testing.T) {
		// A slug set by hand survives edits that leave the title alone.
		entry.Slug = "custom"
		in := helloWorld()
		in.Learning = "more learning"
		updated, err := f.entrySvc.UpdateEntry(ctx, entry, in)
		require.NoError(t, err)
		assert.Equal(t, "custom", updated.Slug)
		assert.Equal(t, "more learning", updated.Learning)
	})

	t.Run("new title regenerates slug", func(t *testing.T) {
		in := helloWorld()
		in.Title = "Hello Again"
		in.Tags = "python"
		_, err := f.entrySvc.UpdateEntry(ctx, entry, in)
		require.NoError(t, err)

		found, err := f.entrySvc.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello Again", found.Title)
		assert.Equal(t, "hello-again", found.Slug)
		assert.Equal(t, "python", found.Tags)
		assert.Equal(t, alice.ID, found.UserID)
	})
}

func TestEntryService_DeleteEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	entry, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.entrySvc.DeleteEntry(ctx, entry.ID))

	_, err = f.entrySvc.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.entrySvc.DeleteEntry(ctx, entry.ID), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.entrySvc.DeleteEntry(ctx, 9999), apperrors.ErrNotFound)
}

func TestEntryService_FindOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	entry, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)

	got, err := f.entrySvc.FindOwned(ctx, entry.ID, &auth.Identity{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	_, err = f.entrySvc.FindOwned(ctx, entry.ID, &auth.Identity{UserID: alice.ID + 1})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.entrySvc.FindOwned(ctx, entry.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.entrySvc.FindOwned(ctx, entry.ID, &auth.Identity{UserID: alice.ID + 1, IsAdmin: true})
	assert.NoError(t, err)

	_, err = f.entrySvc.FindOwned(ctx, 9999, &auth.Identity{UserID: alice.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEntryService_UpdateAfterDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	created, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)
	loaded, err := f.entrySvc.FindByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.entrySvc.DeleteEntry(ctx, created.ID))

	in := helloWorld()
	in.Title = "Hello Again"
	_, err = f.entrySvc.UpdateEntry(ctx, loaded, in)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.entrySvc.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEntryService_UpdateRepairsMalformedSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.userSvc.CreateUser(ctx, "alice", "alice@x.com", "pw123", false)
	require.NoError(t, err)

	entry, err := f.entrySvc.CreateEntry(ctx, helloWorld(), alice.ID)
	require.NoError(t, err)

	entry.Slug = "Not A Slug"
	updated, err := f.entrySvc.UpdateEntry(ctx, entry, helloWorld())
	require.NoError(t, err)
	assert.Equal(t, "hello-world", updated.Slug)
}
