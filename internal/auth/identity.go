package auth

import (
	"github.com/labstack/echo/v4"

	"learnjournal/internal/model"
)

// ContextKey is where the session guard stores the verified claims.
const ContextKey = "user"

// Identity is the authenticated user of a request.
type Identity struct {
	UserID   uint
	Username string
	Email    string
	IsAdmin  bool
}

// CanManage reports whether the identity may edit or delete e.
func (i *Identity) CanManage(e *model.Entry) bool {
	return i != nil && e != nil && (i.IsAdmin || e.UserID == i.UserID)
}

// IdentityFrom returns the identity attached by the session guard, if any.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims.Identity(), true
}

// ClaimsFrom returns the verified claims attached by the session guard, if any.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}
