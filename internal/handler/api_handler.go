package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"learnjournal/internal/auth"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/service"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	authService service.AuthService
	users       service.UserService
	entries     service.EntryService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(authService service.AuthService, users service.UserService, entries service.EntryService) *APIHandler {
	return &APIHandler{authService: authService, users: users, entries: entries}
}

// LoginRequest represents an API login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

func apiError(c echo.Context, err error) error {
	if apperrors.IsStorage(err) {
		slog.ErrorContext(c.Request().Context(), "api request failed", "path", c.Request().URL.Path, "error", err)
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *APIHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: user})
}

// ListEntries godoc
// @Summary List the caller's journal
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param tag query string false "Only entries carrying this tag"
// @Success 200 {array} model.Entry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /entries [get]
func (h *APIHandler) ListEntries(c echo.Context) error {
	id, _ := auth.IdentityFrom(c)

	var (
		entries []model.Entry
		err     error
	)
	if tag := c.QueryParam("tag"); tag != "" {
		entries, err = h.users.GetTaggedJournal(c.Request().Context(), id.UserID, tag)
	} else {
		entries, err = h.users.GetJournal(c.Request().Context(), id.UserID)
	}
	if err != nil {
		return apiError(c, err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// GetEntry godoc
// @Summary Get one of the caller's entries
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} model.Entry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /entries/{id} [get]
func (h *APIHandler) GetEntry(c echo.Context) error {
	entryID, err := parseID(c, "id")
	if err != nil {
		return apiError(c, apperrors.ErrNotFound)
	}
	id, _ := auth.IdentityFrom(c)

	entry, err := h.entries.FindOwned(c.Request().Context(), entryID, id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}
