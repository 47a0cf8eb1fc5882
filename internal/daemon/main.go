// Package daemon wires configuration, database, seed data, session storage
// and the web service into one runnable unit.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/dsn"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/tree"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Role{},
		&models.Module{},
		&models.Tab{},
		&models.RoleModule{},
		&models.RoleTab{},
		&models.AuditRecord{},
		&models.User{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	gates, err := seed(cfg, db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	session.Init(newSessionStorage(cfg))

	cache := tree.NewCache(db, cfg.Tree.CacheTTL)

	log.Info().
		Uint("modules_tab_id", gates.ModulesTabID).
		Uint("tabs_tab_id", gates.TabsTabID).
		Msg("management gates resolved")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, cache, gates),
	}, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if cfg.DB.GormEngine == "postgres" {
		dialector = gormpostgres.Open(dsn.Create(cfg))
	} else {
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	return gorm.Open(dialector, &gorm.Config{})
}

// newSessionStorage builds the fiber session storage on the same database
// engine gorm runs on.
func newSessionStorage(cfg *config.Config) fiber.Storage {
	if cfg.DB.GormEngine == "postgres" {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
