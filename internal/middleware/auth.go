package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const actorKey = "actor"

// Authenticator is the subset of the user service the auth middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Actor, error)
}

// BasicAuth checks HTTP Basic credentials against the user store and stores
// the authenticated actor on the context.
func BasicAuth(auth Authenticator) echo.MiddlewareFunc {
	return echoMw.BasicAuthWithConfig(echoMw.BasicAuthConfig{
		Realm: "venue-booking",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			actor, err := auth.Authenticate(c.Request().Context(), username, password)
			if errors.Is(err, service.ErrForbidden) {
				return false, nil
			}
			if err != nil {
				return false, echo.NewHTTPError(http.StatusInternalServerError, "authentication unavailable")
			}
			SetActor(c, *actor)
			return true, nil
		},
	})
}

func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the authenticated actor, if any.
func ActorFrom(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok
}

// RequireRole rejects requests whose actor holds none of roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !slices.Contains(roles, actor.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "unauthorized access")
			}
			return next(c)
		}
	}
}
