package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnjournal/internal/auth"
	"learnjournal/internal/form"
	"learnjournal/internal/model"
)

func newContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func flashCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookie {
			last = ck
		}
	}
	return last
}

func TestFlashesSurviveRedirect(t *testing.T) {
	c, rec := newContext(t)
	AddFlash(c, "success", "Entry has been updated!")
	require.NoError(t, c.Redirect(http.StatusFound, "/"))

	ck := flashCookieFrom(rec)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)

	next, nextRec := newContext(t, ck)
	flashes := PopFlashes(next)
	require.Len(t, flashes, 1)
	assert.Equal(t, Flash{Category: "success", Message: "Entry has been updated!"}, flashes[0])

	cleared := flashCookieFrom(nextRec)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Empty(t, PopFlashes(next))
}

func TestPopFlashes_IgnoresGarbage(t *testing.T) {
	c, _ := newContext(t, &http.Cookie{Name: flashCookie, Value: "%%%not-base64"})
	assert.Empty(t, PopFlashes(c))
}

func TestRender_FlashOnSamePage(t *testing.T) {
	c, rec := newContext(t)
	AddFlash(c, "error", "Your email or password doesn't match!")

	require.NoError(t, c.Render(http.StatusOK, PageLogin, &Page{Title: "Login", Form: &form.LoginForm{}}))
	body := rec.Body.String()
	assert.Contains(t, body, "Your email or password doesn&#39;t match!")
	assert.Contains(t, body, `class="notification error"`)

	cleared := flashCookieFrom(rec)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestRender_JournalForIdentity(t *testing.T) {
	c, rec := newContext(t)
	c.Set(auth.ContextKey, &auth.Claims{UserID: 1, Username: "alice"})

	entries := []model.Entry{{
		ID:    7,
		Title: "Hello World",
		Slug:  "hello-world",
		Date:  time.Date(2016, 12, 23, 0, 0, 0, 0, time.UTC),
		Tags:  "go,rust",
	}}
	require.NoError(t, c.Render(http.StatusOK, PageIndex, &Page{Entries: entries}))

	body := rec.Body.String()
	assert.Contains(t, body, `href="/details/7/hello-world"`)
	assert.Contains(t, body, "December 23, 2016")
	assert.Contains(t, body, `href="/tags/rust"`)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Logout")
}

func TestRender_UnknownPage(t *testing.T) {
	c, _ := newContext(t)
	err := c.Render(http.StatusOK, "missing", &Page{})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))
}
