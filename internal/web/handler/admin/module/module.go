// Package module provides handlers for managing navigation modules (CRUD)
// in the admin area.
package module

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	modulectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/module"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/tree"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path is the base path for module management.
	Path = handler.RootPath + "admin/module"

	// RouteByID addresses one module.
	RouteByID = Path + "/:id"

	// ErrMsgNotFound is returned when a module with the given id does not exist.
	ErrMsgNotFound = "Module not found"
	// ErrMsgInvalid is returned when the payload violates a tree invariant.
	ErrMsgInvalid = "Invalid module definition"
)

// Request is the create/update payload.
type Request struct {
	Name             string   `json:"name" validate:"required"`
	Icon             string   `json:"icon"`
	Route            string   `json:"route" validate:"required"`
	IsParent         bool     `json:"is_parent"`
	ParentID         *uint    `json:"parent_id"`
	ExtraPermissions []string `json:"extra_permissions"`
}

// Service provides CRUD operations for modules.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	cache     *tree.Cache
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes, each gated on a base token of the
// modules-management tab.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, resolver *auth.Service, cache *tree.Cache, gateTabID uint) {
	if app == nil || cfg == nil || db == nil || resolver == nil || cache == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.cache = cache
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

// List returns all modules.
func (s *Service) List(c *fiber.Ctx) error {
	modules, err := modulectl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load modules")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	return c.JSON(fiber.Map{"modules": modules})
}

// Create creates a new module.
func (s *Service) Create(c *fiber.Ctx) error {
	mod, ok := s.parse(c)
	if !ok {
		return nil
	}

	if err := modulectl.Create(s.db, mod); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateModules()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"module": mod})
}

// Update overwrites an existing module.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	mod, ok := s.parse(c)
	if !ok {
		return nil
	}

	mod.ID = uint(id)

	if err := modulectl.Update(s.db, mod); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateModules()

	return c.JSON(fiber.Map{"module": mod})
}

// Delete removes a module. The delete is physical: children keep their
// parent reference and the tree layer degrades it (see tree.FullRoute).
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	if err := modulectl.Delete(s.db, uint(id)); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateModules()

	return c.JSON(fiber.Map{"message": "Module deleted"})
}

func (s *Service) parse(c *fiber.Ctx) (*models.Module, bool) {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody}) //nolint:errcheck // status already set
		return nil, false
	}

	if err := s.validator.Struct(req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody}) //nolint:errcheck // status already set
		return nil, false
	}

	if len(req.ExtraPermissions) > 0 {
		if _, err := auth.NewTokenSet(req.ExtraPermissions); err != nil {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalid}) //nolint:errcheck // status already set
			return nil, false
		}
	}

	mod := &models.Module{
		Name:             req.Name,
		Icon:             req.Icon,
		Route:            req.Route,
		IsParent:         req.IsParent,
		ParentID:         req.ParentID,
		ExtraPermissions: req.ExtraPermissions,
	}

	return mod, true
}

func (s *Service) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, modulectl.ErrModuleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrMsgNotFound})
	case errors.Is(err, modulectl.ErrParentNotParent),
		errors.Is(err, modulectl.ErrParentHasParent),
		errors.Is(err, modulectl.ErrParentHasExtraPermissions),
		errors.Is(err, modulectl.ErrSelfParent),
		errors.Is(err, modulectl.ErrModuleNameEmpty),
		errors.Is(err, modulectl.ErrModuleRouteEmpty),
		errors.Is(err, modulectl.ErrModuleHasTabs),
		errors.Is(err, modulectl.ErrModuleHasChildren):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("module mutation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}
}
