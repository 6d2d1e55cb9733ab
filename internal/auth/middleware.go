package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "learnjournal/internal/errors"
)

// SessionCookie is the name of the browser session cookie.
const SessionCookie = "journal_session"

// ErrTokenRevoked is returned for a session that was logged out.
var ErrTokenRevoked = errors.New("session revoked")

// Guard verifies session tokens for protected and public routes.
type Guard struct {
	jwt    *JWTService
	tokens TokenStoreInterface
	secure bool
}

// NewGuard builds a Guard. secure marks the session cookie HTTPS-only.
func NewGuard(jwtService *JWTService, tokens TokenStoreInterface, secure bool) *Guard {
	return &Guard{jwt: jwtService, tokens: tokens, secure: secure}
}

func (g *Guard) parseToken(c echo.Context, auth string) (interface{}, error) {
	claims, err := g.jwt.ValidateToken(auth)
	if err != nil {
		return nil, err
	}
	revoked, err := g.tokens.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Optional attaches the identity when a valid session cookie is present and
// lets anonymous requests through. JSON API routes are left to RequireAPI.
func (g *Guard) Optional() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ContextKey:             ContextKey,
		TokenLookup:            "cookie:" + SessionCookie,
		ParseTokenFunc:         g.parseToken,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// RequirePage redirects browser requests without an identity to the login
// page. It relies on Optional having run first.
func (g *Guard) RequirePage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFrom(c); ok {
				return next(c)
			}
			if _, err := c.Cookie(SessionCookie); err == nil {
				g.ClearCookie(c)
			}
			return c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
		}
	}
}

// RequireAPI rejects requests without a valid bearer token or session cookie.
func (g *Guard) RequireAPI() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     ContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookie,
		ParseTokenFunc: g.parseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "missing or invalid session",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// SetCookie stores a freshly issued session token in the browser.
func (g *Guard) SetCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func (g *Guard) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
