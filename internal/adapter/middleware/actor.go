package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"groupware-approval/pkg/id"
)

// HeaderActorID carries the authenticated member id. Authentication itself
// happens upstream; this service only trusts and threads the id through.
const HeaderActorID = "Ax-Actor-Id"

const actorKey = "actor_id"

func unauthenticated(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"code": "UNAUTHENTICATED", "error": msg})
}

// RequireActor rejects requests without a valid Ax-Actor-Id and stores the
// parsed id on the context.
func RequireActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
			if raw == "" {
				return unauthenticated(c, "missing "+HeaderActorID)
			}
			actor, err := id.Parse(raw)
			if err != nil {
				return unauthenticated(c, "invalid "+HeaderActorID)
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorID returns the id stored by RequireActor, or 0.
func ActorID(c echo.Context) uint64 {
	v, _ := c.Get(actorKey).(uint64)
	return v
}
