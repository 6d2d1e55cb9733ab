package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "learnjournal/internal/errors"
)

// Flash categories understood by the layout.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// parseID reads a positive numeric path parameter. Anything else is a 404,
// since such a resource can never exist.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return uint(id), nil
}

// pageError turns domain errors into HTTP errors for the HTML pages.
// Storage failures are returned unchanged and end up as a 500.
func pageError(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrForbidden) {
		return echo.ErrNotFound
	}
	return err
}

// safeNext only accepts local absolute paths as a post-login destination.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusFound, location)
}
