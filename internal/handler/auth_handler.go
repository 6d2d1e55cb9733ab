package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"learnjournal/internal/auth"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/form"
	"learnjournal/internal/service"
	"learnjournal/internal/view"
)

// AuthHandler handles the registration, login and logout pages.
type AuthHandler struct {
	authService service.AuthService
	guard       *auth.Guard
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, guard *auth.Guard) *AuthHandler {
	return &AuthHandler{authService: authService, guard: guard}
}

// RegisterForm shows the registration page.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageRegister, &view.Page{Title: "Register", Form: &form.RegistrationForm{}})
}

// Register creates an account. The new user still has to log in.
func (h *AuthHandler) Register(c echo.Context) error {
	var f form.RegistrationForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Check(c, &f); errs.Any() {
		return c.Render(http.StatusOK, view.PageRegister, &view.Page{Title: "Register", Form: &f, Errors: errs})
	}

	_, err := h.authService.Register(c.Request().Context(), f.Username, f.Email, f.Password)
	if errors.Is(err, apperrors.ErrDuplicateUser) {
		view.AddFlash(c, flashError, "User with that username or email already exists.")
		return c.Render(http.StatusOK, view.PageRegister, &view.Page{Title: "Register", Form: &f})
	}
	if err != nil {
		return err
	}

	view.AddFlash(c, flashSuccess, "Yay, you registered!")
	return redirect(c, "/")
}

// LoginForm shows the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLogin, &view.Page{
		Title: "Login",
		Form:  &form.LoginForm{},
		Next:  c.QueryParam("next"),
	})
}

// Login starts a browser session. Unknown emails and wrong passwords get the
// same answer.
func (h *AuthHandler) Login(c echo.Context) error {
	next := c.QueryParam("next")

	var f form.LoginForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Check(c, &f); errs.Any() {
		return c.Render(http.StatusOK, view.PageLogin, &view.Page{Title: "Login", Form: &f, Errors: errs, Next: next})
	}

	token, _, err := h.authService.Login(c.Request().Context(), f.Email, f.Password)
	if errors.Is(err, apperrors.ErrAuthenticationFailure) {
		view.AddFlash(c, flashError, "Your email or password doesn't match!")
		return c.Render(http.StatusOK, view.PageLogin, &view.Page{
			Title: "Login",
			Form:  &form.LoginForm{Email: f.Email},
			Next:  next,
		})
	}
	if err != nil {
		return err
	}

	h.guard.SetCookie(c, token, h.authService.SessionTTL())
	view.AddFlash(c, flashSuccess, "You've been logged in!")
	return redirect(c, safeNext(next))
}

// Logout revokes the session and drops the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if claims, ok := auth.ClaimsFrom(c); ok {
		if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
			return err
		}
	}
	h.guard.ClearCookie(c)
	view.AddFlash(c, flashSuccess, "You've been logged out!")
	return redirect(c, "/")
}
