// Package tab provides handlers for managing tabs (CRUD) in the admin area.
package tab

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	tabctl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/tab"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/tree"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path is the base path for tab management.
	Path = handler.RootPath + "admin/tab"

	// RouteHosts lists the modules a new tab can attach to.
	RouteHosts = Path + "/hosts"

	// RouteByID addresses one tab.
	RouteByID = Path + "/:id"

	// ErrMsgNotFound is returned when a tab with the given id does not exist.
	ErrMsgNotFound = "Tab not found"
)

// Request is the create/update payload.
type Request struct {
	ModuleID         uint     `json:"module_id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Route            string   `json:"route" validate:"required"`
	ExtraPermissions []string `json:"extra_permissions"`
}

// Service provides CRUD operations for tabs.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	cache     *tree.Cache
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes, each gated on a base token of the
// tabs-management tab.
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
	app.Get(RouteHosts,
		auth.ResolveActor(),
		s.Hosts,
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

// List returns all tabs, optionally filtered by module via ?module_id=.
func (s *Service) List(c *fiber.Ctx) error {
	var (
		tabs []models.Tab
		err  error
	)

	if raw := c.Query("module_id"); raw != "" {
		moduleID, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil || moduleID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
		}

		tabs, err = tabctl.GetByModule(s.db, uint(moduleID))
	} else {
		tabs, err = tabctl.GetAll(s.db)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to load tabs")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	return c.JSON(fiber.Map{"tabs": tabs})
}

// Hosts returns the non-parent modules a new tab can attach to, each with
// its computed full route. Served from the tree cache.
func (s *Service) Hosts(c *fiber.Ctx) error {
	hosts, err := s.cache.TabHosts()
	if err != nil {
		log.Error().Err(err).Msg("failed to load tab hosts")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	return c.JSON(fiber.Map{"hosts": hosts})
}

// Create creates a new tab under a module.
func (s *Service) Create(c *fiber.Ctx) error {
	tab, ok := s.parse(c)
	if !ok {
		return nil
	}

	if err := tabctl.Create(s.db, tab); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateTabs()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tab": tab})
}

// Update overwrites an existing tab.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	tab, ok := s.parse(c)
	if !ok {
		return nil
	}

	tab.ID = uint(id)

	if err := tabctl.Update(s.db, tab); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateTabs()

	return c.JSON(fiber.Map{"tab": tab})
}

// Delete removes a tab.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidID})
	}

	if err := tabctl.Delete(s.db, uint(id)); err != nil {
		return s.writeError(c, err)
	}

	s.cache.InvalidateTabs()

	return c.JSON(fiber.Map{"message": "Tab deleted"})
}

func (s *Service) parse(c *fiber.Ctx) (*models.Tab, bool) {
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
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ErrMsgInvalidBody}) //nolint:errcheck // status already set
			return nil, false
		}
	}

	return &models.Tab{
		ModuleID:         req.ModuleID,
		Name:             req.Name,
		Route:            req.Route,
		ExtraPermissions: req.ExtraPermissions,
	}, true
}

func (s *Service) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, tabctl.ErrTabNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrMsgNotFound})
	case errors.Is(err, tabctl.ErrTabNameEmpty),
		errors.Is(err, tabctl.ErrTabRouteEmpty),
		errors.Is(err, tabctl.ErrTabOnParentModule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("tab mutation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}
}
