package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"learnjournal/internal/auth"
	"learnjournal/internal/form"
	"learnjournal/internal/model"
	"learnjournal/internal/service"
	"learnjournal/internal/view"
)

// JournalHandler serves the journal entry pages.
type JournalHandler struct {
	users   service.UserService
	entries service.EntryService
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(users service.UserService, entries service.EntryService) *JournalHandler {
	return &JournalHandler{users: users, entries: entries}
}

// Index lists the current user's entries, or greets anonymous visitors.
func (h *JournalHandler) Index(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return c.Render(http.StatusOK, view.PageIndex, &view.Page{Title: "Welcome"})
	}

	entries, err := h.users.GetJournal(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageIndex, &view.Page{Entries: entries})
}

// Tagged lists the current user's entries carrying a tag.
func (h *JournalHandler) Tagged(c echo.Context) error {
	id, _ := auth.IdentityFrom(c)

	tag := c.Param("tag")
	if unescaped, err := url.PathUnescape(tag); err == nil {
		tag = unescaped
	}

	entries, err := h.users.GetTaggedJournal(c.Request().Context(), id.UserID, tag)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageIndex, &view.Page{
		Title:   "Tag: " + tag,
		Entries: entries,
		Tag:     tag,
	})
}

// NewEntry shows the empty entry form, dated today.
func (h *JournalHandler) NewEntry(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageNew, &view.Page{
		Title: "New Entry",
		Form:  &form.EntryForm{Date: time.Now().Format(model.DateLayout)},
	})
}

// CreateEntry validates the form and stores a new entry.
func (h *JournalHandler) CreateEntry(c echo.Context) error {
	id, _ := auth.IdentityFrom(c)

	var f form.EntryForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Check(c, &f); errs.Any() {
		return c.Render(http.StatusOK, view.PageNew, &view.Page{Title: "New Entry", Form: &f, Errors: errs})
	}

	in, err := f.ToInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	if _, err := h.entries.CreateEntry(c.Request().Context(), in, id.UserID); err != nil {
		return err
	}

	view.AddFlash(c, flashSuccess, "New journal entry has been added!")
	return redirect(c, "/")
}

// EditEntry shows the edit form pre-filled with the entry.
func (h *JournalHandler) EditEntry(c echo.Context) error {
	entry, err := h.ownedEntry(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageEdit, &view.Page{
		Title: "Edit " + entry.Title,
		Entry: entry,
		Form:  form.EntryFormFrom(entry),
	})
}

// UpdateEntry validates the form and overwrites the entry.
func (h *JournalHandler) UpdateEntry(c echo.Context) error {
	entry, err := h.ownedEntry(c)
	if err != nil {
		return err
	}

	var f form.EntryForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Check(c, &f); errs.Any() {
		return c.Render(http.StatusOK, view.PageEdit, &view.Page{
			Title:  "Edit " + entry.Title,
			Entry:  entry,
			Form:   &f,
			Errors: errs,
		})
	}

	in, err := f.ToInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	entry, err = h.entries.UpdateEntry(c.Request().Context(), entry, in)
	if err != nil {
		return pageError(err)
	}

	view.AddFlash(c, flashSuccess, "Entry has been updated!")
	return redirect(c, entry.URLPath())
}

// Details shows a single entry. Requests with a missing or stale slug are
// sent to the canonical URL.
func (h *JournalHandler) Details(c echo.Context) error {
	entryID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.entries.FindByID(c.Request().Context(), entryID)
	if err != nil {
		return pageError(err)
	}
	if c.Param("slug") != entry.Slug {
		return c.Redirect(http.StatusMovedPermanently, entry.URLPath())
	}

	id, _ := auth.IdentityFrom(c)
	return c.Render(http.StatusOK, view.PageDetail, &view.Page{
		Title:     entry.Title,
		Entry:     entry,
		CanManage: id.CanManage(entry),
	})
}

// DeleteEntry removes an entry owned by the current user.
func (h *JournalHandler) DeleteEntry(c echo.Context) error {
	entry, err := h.ownedEntry(c)
	if err != nil {
		return err
	}
	if err := h.entries.DeleteEntry(c.Request().Context(), entry.ID); err != nil {
		return pageError(err)
	}

	view.AddFlash(c, flashSuccess, "Entry has been deleted.")
	return redirect(c, "/")
}

func (h *JournalHandler) ownedEntry(c echo.Context) (*model.Entry, error) {
	entryID, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	id, _ := auth.IdentityFrom(c)
	entry, err := h.entries.FindOwned(c.Request().Context(), entryID, id)
	if err != nil {
		return nil, pageError(err)
	}
	return entry, nil
}
