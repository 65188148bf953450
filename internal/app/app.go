package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/live"
	"github.com/lunacare/lunacare-backend/internal/db"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/envutil"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
	"github.com/lunacare/lunacare-backend/internal/session"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	Bus      bus.Bus
	Feed     *live.Feed
	Queries  *live.Queries
	Sessions *session.Manager

	cron   *cron.Cron
	cancel context.CancelFunc
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	eventBus := bus.NewEventBus(log)
	hub := realtime.NewHub(log)
	feed := live.NewFeed(log)

	reposet := wireRepos(theDB, log)
	queries := live.NewQueries(feed, reposet.Cycle, reposet.Health, reposet.Assessment, reposet.Medication, reposet.Appointment)

	serviceset, err := wireServices(theDB, log, cfg, reposet, eventBus)
	if err != nil {
		log.Sync()
		return nil, err
	}

	sessions := session.NewManager(log, session.Config{
		Provider:       serviceset.Auth,
		Store:          serviceset.Profile,
		Defaults:       domain.DefaultProfile(),
		HydrationDelay: cfg.HydrationDelay,
	})

	handlerset := wireHandlers(log, serviceset, hub, queries, sessions)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Hub:      hub,
		Bus:      eventBus,
		Feed:     feed,
		Queries:  queries,
		Sessions: sessions,
	}, nil
}

// Start brings up the background machinery: bus forwarding into the hub and
// the live feed, the session manager, and the reminder sweep.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Bus.StartForwarder(ctx, func(m realtime.Message) {
		a.Hub.Broadcast(m)
		a.Feed.Dispatch(m)
	}); err != nil {
		a.Log.Error("start bus forwarder failed", "error", err)
	}

	a.Sessions.Start(ctx)

	if a.Services.Reminder != nil {
		a.cron = a.Services.Reminder.Start()
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cron != nil {
		a.cron.Stop()
		a.cron = nil
	}
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("close event bus failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
