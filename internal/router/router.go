package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"learnjournal/internal/auth"
	"learnjournal/internal/config"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/form"
	"learnjournal/internal/handler"
	"learnjournal/internal/view"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Journal *handler.JournalHandler
	Auth    *handler.AuthHandler
	API     *handler.APIHandler
	Health  *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	renderer echo.Renderer,
	guard *auth.Guard,
	h Handlers,
) {
	e.HideBanner = true
	e.Validator = form.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	if cfg.CSRFEnabled {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        skipNonBrowser,
			TokenLookup:    "form:_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	e.Use(guard.Optional())

	e.GET("/healthz", h.Health.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public pages
	e.GET("/", h.Journal.Index)
	e.GET("/entries", h.Journal.Index)
	e.GET("/details/:id", h.Journal.Details)
	e.GET("/details/:id/:slug", h.Journal.Details)
	e.GET("/register", h.Auth.RegisterForm)
	e.POST("/register", h.Auth.Register)
	e.GET("/login", h.Auth.LoginForm)
	e.POST("/login", h.Auth.Login)

	// Pages that need a session
	pages := e.Group("", guard.RequirePage())
	pages.GET("/tags/:tag", h.Journal.Tagged)
	pages.GET("/add", h.Journal.NewEntry)
	pages.POST("/add", h.Journal.CreateEntry)
	pages.GET("/edit/:id", h.Journal.EditEntry)
	pages.POST("/edit/:id", h.Journal.UpdateEntry)
	pages.GET("/delete/:id", h.Journal.DeleteEntry)
	pages.GET("/logout", h.Auth.Logout)

	api := e.Group("/api")
	api.POST("/auth/login", h.API.Login)

	secured := api.Group("", guard.RequireAPI())
	secured.GET("/entries", h.API.ListEntries)
	secured.GET("/entries/:id", h.API.GetEntry)
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func skipNonBrowser(c echo.Context) bool {
	p := c.Request().URL.Path
	return isAPI(c) || p == "/healthz" || strings.HasPrefix(p, "/swagger/")
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

// errorHandler answers JSON on the API and the error page everywhere else.
// Server errors are logged once and never leak their message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		case apperrors.IsDomain(err):
			mapped := apperrors.MapErrorToHTTP(err)
			code, msg = mapped.StatusCode, mapped.Message
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
			msg = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else if isAPI(c) {
			err = c.JSON(code, apperrors.ErrorResponse{Error: msg, Code: strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))})
		} else {
			err = c.Render(code, view.PageError, &view.Page{Title: http.StatusText(code), Status: code, Message: msg})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}
