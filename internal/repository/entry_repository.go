package repository

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
)

// EntryRepository defines journal entry persistence operations.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Entry, error)
	// ListByUser returns the user's entries, newest date first.
	ListByUser(ctx context.Context, userID uint) ([]model.Entry, error)
	// ListByUserAndTag returns the user's entries carrying tag as one of
	// their tags, newest date first.
	ListByUserAndTag(ctx context.Context, userID uint, tag string) ([]model.Entry, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EntryRepository) error) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository builds a GORM-backed repository.
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *model.Entry) error {
	return translate("create entry", r.db.WithContext(ctx).Omit("User").Create(entry).Error)
}

// Update overwrites every column of an existing row. It never inserts, so an
// entry deleted after it was loaded stays deleted.
func (r *entryRepository) Update(ctx context.Context, entry *model.Entry) error {
	res := r.db.WithContext(ctx).
		Model(entry).
		Select("*").
		Omit("ID", "User", "CreatedAt").
		Where("id = ?", entry.ID).
		Updates(entry)
	if res.Error != nil {
		return translate("update entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Entry{}, id)
	if res.Error != nil {
		return translate("delete entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *entryRepository) FindByID(ctx context.Context, id uint) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).Preload("User").First(&entry, id).Error; err != nil {
		return nil, translate("find entry", err)
	}
	return &entry, nil
}

func (r *entryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Entry, error) {
	var entries []model.Entry
	if err := r.journal(ctx, userID).Find(&entries).Error; err != nil {
		return nil, translate("list entries", err)
	}
	return entries, nil
}

func (r *entryRepository) ListByUserAndTag(ctx context.Context, userID uint, tag string) ([]model.Entry, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return []model.Entry{}, nil
	}

	// LIKE narrows the candidates, but SQLite only folds ASCII case, so
	// other tags are matched on the full journal.
	query := r.journal(ctx, userID)
	if isASCII(tag) {
		query = query.Where("LOWER(tags) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(tag))+"%")
	}
	var candidates []model.Entry
	if err := query.Find(&candidates).Error; err != nil {
		return nil, translate("list entries by tag", err)
	}

	entries := make([]model.Entry, 0, len(candidates))
	for i := range candidates {
		if candidates[i].HasTag(tag) {
			entries = append(entries, candidates[i])
		}
	}
	return entries, nil
}

func (r *entryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EntryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &entryRepository{db: tx})
	})
}

func (r *entryRepository) journal(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("id DESC")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
