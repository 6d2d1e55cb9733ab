package view

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie = "journal_flash"
	flashKey    = "view.flashes"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashState struct {
	items []Flash
}

// state loads the flashes carried in by the request cookie once per request.
func state(c echo.Context) *flashState {
	if st, ok := c.Get(flashKey).(*flashState); ok {
		return st
	}
	st := &flashState{}
	if ck, err := c.Cookie(flashCookie); err == nil && ck.Value != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(ck.Value); err == nil {
			_ = json.Unmarshal(raw, &st.items)
		}
	}
	c.Set(flashKey, st)
	return st
}

// AddFlash queues a message for the next rendered page, which may be the
// page rendered by this very request.
func AddFlash(c echo.Context, category, message string) {
	st := state(c)
	st.items = append(st.items, Flash{Category: category, Message: message})
	writeFlashes(c, st.items)
}

// PopFlashes returns and clears all pending messages.
func PopFlashes(c echo.Context) []Flash {
	st := state(c)
	items := st.items
	st.items = nil
	if len(items) > 0 {
		writeFlashes(c, nil)
	}
	return items
}

func writeFlashes(c echo.Context, items []Flash) {
	ck := &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(items) == 0 {
		ck.MaxAge = -1
	} else {
		payload, err := json.Marshal(items)
		if err != nil {
			return
		}
		ck.Value = base64.RawURLEncoding.EncodeToString(payload)
	}
	c.SetCookie(ck)
}
