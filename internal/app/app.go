package app

import (
	"context"
	"net/http"

	"doctrack-go/internal/config"
	"doctrack-go/internal/db"
	connectiondomain "doctrack-go/internal/domain/connection"
	graphdomain "doctrack-go/internal/domain/graph"
	householddomain "doctrack-go/internal/domain/household"
	sharedomain "doctrack-go/internal/domain/share"
	userdomain "doctrack-go/internal/domain/user"
	"doctrack-go/internal/notify"
	"doctrack-go/internal/platform/metrics"
	connectionrepo "doctrack-go/internal/repository/postgres/connection"
	documentrepo "doctrack-go/internal/repository/postgres/document"
	householdrepo "doctrack-go/internal/repository/postgres/household"
	sharerepo "doctrack-go/internal/repository/postgres/share"
	userrepo "doctrack-go/internal/repository/postgres/user"
	"doctrack-go/internal/transport/httpserver"
	"doctrack-go/internal/transport/httpserver/handler"
	"doctrack-go/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	dispatcher *notify.Dispatcher
	stopNotify context.CancelFunc
	notifyDone chan struct{}
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	m := metrics.New()

	var redisClient *redis.Client
	var sink notify.Sink = notify.NewLogSink(log)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sink = notify.NewRedisSink(redisClient, cfg.Redis.OutboxKey)
		log.Info("notify: redis outbox enabled", "addr", cfg.Redis.Addr)
	}

	dispatcher := notify.NewDispatcher(sink, cfg.Notify.BufferSize, log, m)
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	notifyDone := make(chan struct{})
	go func() {
		defer close(notifyDone)
		_ = dispatcher.Run(notifyCtx)
	}()

	userRepo := userrepo.NewPostgres(dbConn)
	users := userdomain.NewService(userRepo)
	connRepo := connectionrepo.NewPostgres(dbConn)
	householdRepo := householdrepo.NewPostgres(dbConn)
	shareRepo := sharerepo.NewPostgres(dbConn)
	documents := documentrepo.NewPostgres(dbConn)

	connections := connectiondomain.NewService(connRepo, users, dispatcher, m, log)
	households := householddomain.NewService(householdRepo, users, dispatcher, m, log)
	shares := sharedomain.NewService(shareRepo, documents, dispatcher, m, log)
	graph := graphdomain.NewService(connRepo, userRepo, householdRepo, shareRepo)

	handlers := handler.New(connections, households, shares, graph, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
		dispatcher: dispatcher,
		stopNotify: stopNotify,
		notifyDone: notifyDone,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.stopNotify != nil {
		a.stopNotify()
		<-a.notifyDone
	}

	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}

	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
