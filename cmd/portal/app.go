package main

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/rajbari-portal/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/rajbari-portal/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/rajbari-portal/internal/adapters/storage/redis"
	sqlitestore "github.com/PabloGalante/rajbari-portal/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/rajbari-portal/internal/app/admin"
	"github.com/PabloGalante/rajbari-portal/internal/app/catalog"
	"github.com/PabloGalante/rajbari-portal/internal/app/conversation"
	"github.com/PabloGalante/rajbari-portal/internal/app/railway"
	"github.com/PabloGalante/rajbari-portal/internal/config"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

// app holds the wired services for one process.
type app struct {
	cfg *config.Config

	gateway domain.Gateway
	catalog *catalog.Service
	chat    *conversation.Service
	tracker *railway.Tracker
	admin   *admin.Service

	memCache *memstore.DayCache // nil unless the cache backend is memory
	closers  []func() error
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	observability.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := observability.WithFields("component", "wiring")
	a := &app{cfg: cfg}

	gw, err := newGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.gateway = gw

	var cache domain.DayCache
	switch cfg.CacheBackend {
	case "redis":
		log.Info("using redis day cache", "addr", cfg.RedisAddr)
		rc, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cache: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		cache = rc
	default:
		log.Info("using in-memory day cache")
		a.memCache = memstore.NewDayCache()
		cache = a.memCache
	}

	var (
		sessionStore domain.SessionStore
		messageStore domain.MessageStore
	)
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		a.closers = append(a.closers, fs.Close)
		sessionStore, messageStore = fs, fs
	case "sqlite":
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("initializing sqlite store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		sessionStore, messageStore = db, db
	default:
		log.Info("using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		messageStore = memstore.NewMessageStore()
	}

	a.catalog, err = catalog.NewService(gw, cache)
	if err != nil {
		a.close()
		return nil, err
	}
	a.chat = conversation.NewService(gw, sessionStore, messageStore)
	a.tracker = railway.NewTracker(gw, a.catalog, railway.NewEstimator())
	a.admin = admin.NewService(cfg.AdminPINHash, gw)
	if !a.admin.Enabled() {
		log.Warn("admin pin hash not configured, admin panel is disabled")
	}

	return a, nil
}

func newGateway(ctx context.Context, cfg *config.Config) (domain.Gateway, error) {
	log := observability.WithFields("component", "wiring")
	switch cfg.AIBackend {
	case config.AIBackendMock:
		log.Info("using mock ai gateway")
		return llm.NewMockGateway(), nil
	case config.AIBackendBridge:
		log.Info("using ai bridge", "url", cfg.BridgeURL)
		return llm.NewBridgeGateway(cfg.BridgeURL, cfg.SearchTimeout+5*time.Second), nil
	default:
		log.Info("using gemini gateway", "model", cfg.ModelName, "credential", cfg.APIKey != "")
		gw, err := llm.NewGeminiGateway(ctx, llm.GeminiConfig{
			APIKey:        cfg.APIKey,
			Model:         cfg.ModelName,
			SearchTimeout: cfg.SearchTimeout,
			PlainTimeout:  cfg.PlainTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing gemini gateway: %w", err)
		}
		return gw, nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			observability.Logger().Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
