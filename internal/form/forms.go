package form

import (
	"strings"
	"time"

	"learnjournal/internal/model"
	"learnjournal/internal/service"
)

// EntryForm is the add/edit journal entry form.
type EntryForm struct {
	Title     string `form:"title" validate:"required,max=100"`
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
	TimeSpent string `form:"time_spent" validate:"required,max=100"`
	Learning  string `form:"learning" validate:"required"`
	Resources string `form:"resources" validate:"required"`
	Tags      string `form:"tags" validate:"max=255"`
}

// Normalize trims single-line fields.
func (f *EntryForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Date = strings.TrimSpace(f.Date)
	f.TimeSpent = strings.TrimSpace(f.TimeSpent)
	f.Tags = strings.TrimSpace(f.Tags)
	if strings.TrimSpace(f.Learning) == "" {
		f.Learning = ""
	}
	if strings.TrimSpace(f.Resources) == "" {
		f.Resources = ""
	}
}

// ToInput maps a validated form onto the entry service input.
func (f *EntryForm) ToInput() (service.EntryInput, error) {
	d, err := time.Parse(model.DateLayout, f.Date)
	if err != nil {
		return service.EntryInput{}, err
	}
	return service.EntryInput{
		Title:     f.Title,
		Date:      d,
		TimeSpent: f.TimeSpent,
		Learning:  f.Learning,
		Resources: f.Resources,
		Tags:      f.Tags,
	}, nil
}

// EntryFormFrom pre-fills the edit form.
func EntryFormFrom(e *model.Entry) *EntryForm {
	return &EntryForm{
		Title:     e.Title,
		Date:      e.Date.Format(model.DateLayout),
		TimeSpent: e.TimeSpent,
		Learning:  e.Learning,
		Resources: e.Resources,
		Tags:      e.Tags,
	}
}

// RegistrationForm creates a new account.
type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=50"`
	Email     string `form:"email" validate:"required,email,max=255"`
	Password  string `form:"password" validate:"required,min=2,eqfield=Password2"`
	Password2 string `form:"password2" validate:"required"`
}

// Normalize trims the identifying fields. Passwords are taken verbatim.
func (f *RegistrationForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// LoginForm authenticates by email and password.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Normalize trims the email.
func (f *LoginForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}
