package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and form format of an entry date.
const DateLayout = "2006-01-02"

// TagSeparator joins tags in the persisted tag field.
const TagSeparator = ","

// Entry is a single journal record owned by one user.
type Entry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Slug      string    `json:"slug" gorm:"size:120;not null;index"`
	Date      time.Time `json:"date" gorm:"type:date;not null;index"`
	TimeSpent string    `json:"time_spent" gorm:"size:100;not null"`
	Learning  string    `json:"learning" gorm:"type:text;not null"`
	Resources string    `json:"resources" gorm:"type:text;not null"`
	Tags      string    `json:"tags" gorm:"size:255;not null;default:''"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// URLPath is the canonical details location of the entry.
func (e *Entry) URLPath() string {
	if e.Slug == "" {
		return fmt.Sprintf("/details/%d", e.ID)
	}
	return fmt.Sprintf("/details/%d/%s", e.ID, e.Slug)
}

// TagList splits the stored tag field.
func (e *Entry) TagList() []string {
	return SplitTags(e.Tags)
}

// HasTag reports whether tag is one of the entry's tags, ignoring case.
func (e *Entry) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range e.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SplitTags returns the trimmed, non-empty tokens of a comma separated tag field.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, TagSeparator)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// NormalizeTags trims each tag, drops empty ones and case-insensitive
// duplicates (first spelling wins) and joins the rest with TagSeparator.
func NormalizeTags(raw string) string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range SplitTags(raw) {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return strings.Join(out, TagSeparator)
}
