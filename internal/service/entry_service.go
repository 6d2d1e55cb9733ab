package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnjournal/internal/auth"
	"learnjournal/internal/cache"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/repository"
	"learnjournal/internal/slug"
)

const entryCacheTTL = 5 * time.Minute

// EntryInput carries the editable fields of an entry.
type EntryInput struct {
	Title     string
	Date      time.Time
	TimeSpent string
	Learning  string
	Resources string
	Tags      string
}

// EntryService exposes journal entry operations.
type EntryService interface {
	CreateEntry(ctx context.Context, in EntryInput, userID uint) (*model.Entry, error)
	UpdateEntry(ctx context.Context, entry *model.Entry, in EntryInput) (*model.Entry, error)
	DeleteEntry(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Entry, error)
	// FindOwned behaves like FindByID but reports ErrForbidden when who may
	// not manage the entry.
	FindOwned(ctx context.Context, id uint, who *auth.Identity) (*model.Entry, error)
}

type entryService struct {
	repo  repository.EntryRepository
	cache *cache.Client
}

// NewEntryService builds an EntryService with repository and cache.
func NewEntryService(repo repository.EntryRepository, cache *cache.Client) EntryService {
	return &entryService{repo: repo, cache: cache}
}

// cachedEntry keeps the owner next to the entry, since Entry.User is not serialized.
type cachedEntry struct {
	Entry model.Entry `json:"entry"`
	Owner *model.User `json:"owner,omitempty"`
}

func (s *entryService) cacheKey(id uint) string {
	return fmt.Sprintf("entry:%d", id)
}

func (s *entryService) CreateEntry(ctx context.Context, in EntryInput, userID uint) (*model.Entry, error) {
	entry := &model.Entry{UserID: userID}
	apply(entry, in)

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.EntryRepository) error {
		return tx.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *entryService) UpdateEntry(ctx context.Context, entry *model.Entry, in EntryInput) (*model.Entry, error) {
	apply(entry, in)

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.EntryRepository) error {
		return tx.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(entry.ID))
	return entry, nil
}

func (s *entryService) DeleteEntry(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *entryService) FindByID(ctx context.Context, id uint) (*model.Entry, error) {
	var cached cachedEntry
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		entry := cached.Entry
		entry.User = cached.Owner
		return &entry, nil
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), cachedEntry{Entry: *entry, Owner: entry.User}, entryCacheTTL)
	return entry, nil
}

func (s *entryService) FindOwned(ctx context.Context, id uint, who *auth.Identity) (*model.Entry, error) {
	entry, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanManage(entry) {
		return nil, apperrors.ErrForbidden
	}
	return entry, nil
}

// apply copies the input onto entry. The slug is regenerated only when the
// title changed or the stored one is malformed, so an unchanged title keeps
// its URL.
func apply(entry *model.Entry, in EntryInput) {
	title := strings.TrimSpace(in.Title)
	if entry.ID == 0 || entry.Title != title || !slug.Valid(entry.Slug) {
		entry.Slug = slug.Make(title)
	}
	entry.Title = title
	entry.Date = in.Date
	entry.TimeSpent = strings.TrimSpace(in.TimeSpent)
	entry.Learning = in.Learning
	entry.Resources = in.Resources
	entry.Tags = model.NormalizeTags(in.Tags)
}
