package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/maddreams/cleaning-site/config"
	"github.com/maddreams/cleaning-site/controllers"
	"github.com/maddreams/cleaning-site/database"
	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/middlewares"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/router"
	"github.com/maddreams/cleaning-site/services"
	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
	"github.com/maddreams/cleaning-site/web"
)

const sessionSweep = 10 * time.Minute

type app struct {
	handler http.Handler
	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	var checks []controllers.ReadyCheck

	var (
		appointments store.RecordStore[models.Appointment]
		clients      store.RecordStore[models.Client]
		complaints   store.RecordStore[models.Complaint]
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		appointments = store.NewMemory[models.Appointment]()
		clients = store.NewMemory[models.Client]()
		complaints = store.NewMemory[models.Complaint](store.NewestFirst())
	default:
		db, err := database.Open(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { database.Close(db) })
		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, err
		}
		appointments = store.NewGorm[models.Appointment](db)
		clients = store.NewGorm[models.Client](db)
		complaints = store.NewGorm[models.Complaint](db, store.NewestFirst())
		checks = append(checks, controllers.ReadyCheck{Name: "db", Check: pingDB(db)})
	}

	var sessionStore sessions.Store
	switch cfg.SessionBackend {
	case config.SessionRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		sessionStore = sessions.NewRedisStore(rdb, "")
		checks = append(checks, controllers.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	default:
		ms := sessions.NewMemoryStore(sessionSweep)
		a.closers = append(a.closers, ms.Close)
		sessionStore = ms
	}

	if cfg.SeedData {
		if err := services.SeedDemoData(ctx, appointments, clients, complaints); err != nil {
			a.Close()
			return nil, err
		}
	}

	hub := events.NewHub()
	a.closers = append(a.closers, hub.Close)

	var limiter *middlewares.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		a.closers = append(a.closers, limiter.Close)
	}

	engine := router.SetupRouter(router.Deps{
		Appointments: appointments,
		Clients:      clients,
		Complaints:   complaints,
		Sessions: sessions.NewManager(sessionStore, sessions.Config{
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		}),
		Credentials: utils.Credentials{
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		},
		Hub:            hub,
		Limiter:        limiter,
		TrustedProxies: cfg.TrustedProxies,
		Pages:          web.Pages(),
		Assets:         web.Assets(),
		ReadyChecks:    checks,
	})

	a.handler = alice.New(middlewares.RequestID, middlewares.CORS(cfg.CORSAllowedOrigins)).Then(engine)
	return a, nil
}

func pingDB(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
