package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/session"
)

// Locals keys under which the resolved actor is stored for handlers.
const (
	// LocalsActorUserID holds the authenticated user's id (uint64).
	LocalsActorUserID = "actorUserID"
	// LocalsActorRoleID holds the authenticated user's role id (uint).
	LocalsActorRoleID = "actorRoleID"
)

// ResolveActor reads the session cookie and stores the acting user and
// role ids in fiber locals. Requests without a valid session are rejected
// with 401. Handlers pick the actor up with ActorFromCtx and thread it
// explicitly into the engine; nothing below the handler layer touches
// session state.
func ResolveActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Debug().Err(err).Msg("failed to read session")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		if sessionData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals(LocalsActorUserID, sessionData.User.ID)
		c.Locals(LocalsActorRoleID, sessionData.User.RoleID)

		return c.Next()
	}
}

// ActorFromCtx returns the actor resolved by ResolveActor. The boolean is
// false when the middleware did not run on this route.
func ActorFromCtx(c *fiber.Ctx) (Actor, bool) {
	userID, okUser := c.Locals(LocalsActorUserID).(uint64)
	roleID, okRole := c.Locals(LocalsActorRoleID).(uint)

	if !okUser || !okRole {
		return Actor{}, false
	}

	return Actor{UserID: &userID, RoleID: roleID}, true
}

// RequireToken creates Fiber middleware that requires a base token on a
// management tab, resolved against the actor's role. It must run after
// ResolveActor. Fails closed: any resolver error denies the request.
func RequireToken(resolver *Service, gateTabID uint, token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		has, err := resolver.HasTabToken(actor.RoleID, gateTabID, token)
		if err != nil {
			log.Error().Err(err).
				Uint("role_id", actor.RoleID).
				Str("token", token).
				Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !has {
			log.Warn().
				Uint("role_id", actor.RoleID).
				Str("token", token).
				Msg("role lacks required token")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}
