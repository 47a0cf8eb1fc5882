// Package role provides handlers for managing roles (CRUD) in the admin area.
package role

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	rolectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/role"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "admin/role"

	// RouteByID addresses one role.
	RouteByID = Path + "/:id"

	// ErrMsgNotFound is returned when a role with the given id does not exist.
	ErrMsgNotFound = "Role not found"
)

// Request is the create/update payload.
type Request struct {
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
}

// Service provides CRUD operations for roles.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes gated on the modules-management tab.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, resolver *auth.Service, gateTabID uint) {
	if app == nil || cfg == nil || db == nil || resolver == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path,
		auth.ResolveActor(),
		s.List,
	)
	app.Post(Path,
		auth.ResolveActor(),
		auth.RequireToken(resolver, gateTabID, auth.TokenCreate),
		s.Create,
	)
	app.Put(RouteByID,
		auth.ResolveActor(),
		auth.RequireToken(resolver, gateTabID, auth.TokenEdit),
		s.Update,
	)
	app.Delete(RouteByID,
		auth.ResolveActor(),
		auth.RequireToken(resolver, gateTabID, auth.TokenDelete),
		s.Delete,
	)
}

// List returns all active roles.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolectl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	return c.JSON(fiber.Map{"roles": roles})
}

// Create creates a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	role, ok := s.parse(c)
	if !ok {
		return nil
	}

	if err := rolectl.Create(s.db, role); err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"role": role})
}

// Update overwrites an existing role.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	role, ok := s.parse(c)
	if !ok {
		return nil
	}

	role.ID = uint(id)

	if err := rolectl.Update(s.db, role); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"role": role})
}

// Delete soft-deletes a role. Assignment edges stay in place; the
// resolver never sees them again because role lookups filter deleted
// roles.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	if err := rolectl.Delete(s.db, uint(id)); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Role deleted"})
}

func (s *Service) parse(c *fiber.Ctx) (*models.Role, bool) {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody}) //nolint:errcheck // status already set
		return nil, false
	}

	if err := s.validator.Struct(req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody}) //nolint:errcheck // status already set
		return nil, false
	}

	return &models.Role{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	}, true
}

func (s *Service) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrMsgNotFound})
	case errors.Is(err, rolectl.ErrRoleNameEmpty),
		errors.Is(err, rolectl.ErrRoleAbbreviationEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("role mutation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}
}
