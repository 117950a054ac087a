package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamboard/internal/config"
	"teamboard/internal/db"
	"teamboard/internal/handler"
	"teamboard/internal/httpserver"
	"teamboard/internal/repository"
	"teamboard/internal/repository/memory"
	"teamboard/internal/repository/postgres"
	"teamboard/internal/service"
	"teamboard/internal/session"
	"teamboard/pkg/logger"
	redisclient "teamboard/pkg/redis"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Server.Development)
	defer log.Sync()

	// Storage backend: postgres by default, in-memory for demo runs.
	var (
		store repository.Store
		pool  *pgxpool.Pool
	)
	switch cfg.Store {
	case "memory":
		log.Info("Using in-memory store")
		store = memory.NewStore()
	default:
		pool, err = db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("DB initialization failed", zap.Error(err))
		}
		defer pool.Close()

		pg := postgres.NewStore(pool, log)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatal("Schema migration failed", zap.Error(err))
		}
		store = pg
	}

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	sessions := session.NewStore(rdb, cfg.Session.TTL, log)
	access := service.NewAccess(store)

	authService := service.NewAuthService(store, sessions, log)
	teamService := service.NewTeamService(store, access, log)
	projectService := service.NewProjectService(store, access, log)
	taskService := service.NewTaskService(store, access, log)
	commentService := service.NewCommentService(store, access, log)
	fileService := service.NewFileService(store, access, log)
	messageService := service.NewMessageService(store, access, log)
	userService := service.NewUserService(store, log)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:    handler.NewAuthHandler(authService, cfg.Session.TTL),
		Team:    handler.NewTeamHandler(teamService, messageService),
		Project: handler.NewProjectHandler(projectService, fileService),
		Task:    handler.NewTaskHandler(taskService, commentService, fileService),
		File:    handler.NewFileHandler(fileService),
		User:    handler.NewUserHandler(userService),
	}, sessions, pool, rdb)

	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
