package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	fiberlogger "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/logger/adapter/fiber"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/tree"
	auditadmin "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/admin/audit"
	moduleadmin "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/admin/module"
	roleadmin "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/admin/role"
	tabadmin "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/admin/tab"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/assignment"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/login"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/logout"
	treehandler "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler/tree"
)

const checkAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Gates carries the management tab ids the assignment endpoints and the
// admin area authorize against.
type Gates struct {
	ModulesTabID uint
	TabsTabID    uint
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, cache *tree.Cache, gates Gates) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if cache == nil {
		panic("tree cache cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging via the zerolog fiber adapter
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAlivePath,
	}))

	authService := auth.NewService(db)
	engine := auth.NewEngine(db, cache, auth.Gates{
		ModulesTabID: gates.ModulesTabID,
		TabsTabID:    gates.TabsTabID,
	})

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	app.Get(checkAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)
	assignment.Handler.Init(app, cfg, engine)
	treehandler.Handler.Init(app, cfg, db, cache)
	moduleadmin.Handler.Init(app, cfg, db, authService, cache, gates.ModulesTabID)
	tabadmin.Handler.Init(app, cfg, db, authService, cache, gates.TabsTabID)
	roleadmin.Handler.Init(app, cfg, db, authService, gates.ModulesTabID)
	auditadmin.Handler.Init(app, cfg, db, authService, gates.ModulesTabID)

	return service
}
