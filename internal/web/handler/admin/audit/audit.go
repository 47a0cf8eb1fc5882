// Package audit exposes the assignment audit trail as a read-only listing.
package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	auditctl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/audit"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path lists audit records.
	Path = handler.RootPath + "admin/audit"

	// QueryOffset and QueryLimit paginate the listing.
	QueryOffset = "offset"
	QueryLimit  = "limit"

	// DefaultLimit caps one page when the client does not set a limit.
	DefaultLimit = 50
	// MaxLimit is the hard page cap.
	MaxLimit = 500
)

// Service provides the audit listing.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers the listing route, gated on the edit token of the
// modules-management tab.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, resolver *auth.Service, gateTabID uint) {
	if app == nil || cfg == nil || db == nil || resolver == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path,
		auth.ResolveActor(),
		auth.RequireToken(resolver, gateTabID, auth.TokenEdit),
		s.List,
	)
}

// List returns audit records newest first.
func (s *Service) List(c *fiber.Ctx) error {
	offset := parseBounded(c.Query(QueryOffset), 0, 0, 1<<30)
	limit := parseBounded(c.Query(QueryLimit), DefaultLimit, 1, MaxLimit)

	records, total, err := auditctl.List(s.db, offset, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load audit records")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	return c.JSON(fiber.Map{
		"records": records,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
	})
}

func parseBounded(raw string, def, min, max int) int {
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}

	return v
}
