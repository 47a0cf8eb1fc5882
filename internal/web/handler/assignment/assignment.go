// Package assignment provides the HTTP endpoints that grant or revoke
// modules and tabs for a role through the cascade engine.
package assignment

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	modulectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/module"
	rolectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/role"
	tabctl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/tab"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path is the base path for assignment mutations.
	Path = handler.RootPath + "assignment"

	// RouteAssignModule grants a module to a role.
	RouteAssignModule = Path + "/module"
	// RouteUnassignModule revokes a module from a role.
	RouteUnassignModule = Path + "/module/remove"
	// RouteAssignTab grants a tab to a role.
	RouteAssignTab = Path + "/tab"
	// RouteUnassignTab revokes a tab from a role.
	RouteUnassignTab = Path + "/tab/remove"

	// MsgAssigned confirms a committed assignment.
	MsgAssigned = "Assignment saved"
	// MsgUnassigned confirms a committed removal.
	MsgUnassigned = "Assignment removed"

	// ErrMsgForbidden is returned when the actor lacks the required token.
	ErrMsgForbidden = "Forbidden: your role cannot perform this operation"
	// ErrMsgInvalidPermissions is returned when the permission list fails validation.
	ErrMsgInvalidPermissions = "Invalid permission tokens"
)

// ModuleRequest is the payload for module assignment mutations.
type ModuleRequest struct {
	RoleID      uint     `json:"role_id" validate:"required"`
	ModuleID    uint     `json:"module_id" validate:"required"`
	Permissions []string `json:"permissions"`
}

// TabRequest is the payload for tab assignment mutations.
type TabRequest struct {
	RoleID      uint     `json:"role_id" validate:"required"`
	TabID       uint     `json:"tab_id" validate:"required"`
	Permissions []string `json:"permissions"`
}

// Service exposes the assignment endpoints.
type Service struct {
	cfg       *config.Config
	engine    *auth.Engine
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Every route resolves the actor first; the
// per-operation token checks happen inside the engine transaction.
func (s *Service) Init(app *fiber.App, cfg *config.Config, engine *auth.Engine) {
	if app == nil || cfg == nil || engine == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.engine = engine
	s.validator = validator.New()

	app.Post(RouteAssignModule, auth.ResolveActor(), s.AssignModule)
	app.Post(RouteUnassignModule, auth.ResolveActor(), s.UnassignModule)
	app.Post(RouteAssignTab, auth.ResolveActor(), s.AssignTab)
	app.Post(RouteUnassignTab, auth.ResolveActor(), s.UnassignTab)
}

// AssignModule grants a module (and, transparently, its parent) to a role.
func (s *Service) AssignModule(c *fiber.Ctx) error {
	var req ModuleRequest

	actor, err := s.parseRequest(c, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody})
	}

	perms, err := auth.NewTokenSet(req.Permissions)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidPermissions})
	}

	if err = s.engine.AssignModule(actor, req.RoleID, req.ModuleID, perms); err != nil {
		return s.mutationError(c, err, req.RoleID, req.ModuleID)
	}

	return c.JSON(fiber.Map{"message": MsgAssigned})
}

// UnassignModule revokes a module from a role, dropping the parent edge
// when no assigned sibling keeps it alive.
func (s *Service) UnassignModule(c *fiber.Ctx) error {
	var req ModuleRequest

	actor, err := s.parseRequest(c, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody})
	}

	if err = s.engine.UnassignModule(actor, req.RoleID, req.ModuleID); err != nil {
		return s.mutationError(c, err, req.RoleID, req.ModuleID)
	}

	return c.JSON(fiber.Map{"message": MsgUnassigned})
}

// AssignTab grants a tab to a role.
func (s *Service) AssignTab(c *fiber.Ctx) error {
	var req TabRequest

	actor, err := s.parseRequest(c, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody})
	}

	perms, err := auth.NewTokenSet(req.Permissions)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidPermissions})
	}

	if err = s.engine.AssignTab(actor, req.RoleID, req.TabID, perms); err != nil {
		return s.mutationError(c, err, req.RoleID, req.TabID)
	}

	return c.JSON(fiber.Map{"message": MsgAssigned})
}

// UnassignTab revokes a tab from a role.
func (s *Service) UnassignTab(c *fiber.Ctx) error {
	var req TabRequest

	actor, err := s.parseRequest(c, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody})
	}

	if err = s.engine.UnassignTab(actor, req.RoleID, req.TabID); err != nil {
		return s.mutationError(c, err, req.RoleID, req.TabID)
	}

	return c.JSON(fiber.Map{"message": MsgUnassigned})
}

var errNoActor = errors.New("no actor resolved for request")

// parseRequest decodes and validates the payload and picks up the actor
// placed in locals by ResolveActor.
func (s *Service) parseRequest(c *fiber.Ctx, req any) (auth.Actor, error) {
	if err := c.BodyParser(req); err != nil {
		return auth.Actor{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return auth.Actor{}, err
	}

	actor, ok := auth.ActorFromCtx(c)
	if !ok {
		return auth.Actor{}, errNoActor
	}

	return actor, nil
}

// mutationError maps engine failures onto the HTTP error taxonomy:
// authorization denials to 403, unresolved references to 404, anything
// else to a generic 500 with the ids logged for reproduction.
func (s *Service) mutationError(c *fiber.Ctx, err error, roleID, nodeID uint) error {
	switch {
	case errors.Is(err, auth.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ErrMsgForbidden})
	case errors.Is(err, rolectl.ErrRoleNotFound),
		errors.Is(err, modulectl.ErrModuleNotFound),
		errors.Is(err, tabctl.ErrTabNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).
			Uint("role_id", roleID).
			Uint("node_id", nodeID).
			Msg("assignment mutation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}
}
