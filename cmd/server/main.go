package main

import (
	"log"

	"go.uber.org/zap"

	"habitflow/config"
	"habitflow/internal/dateparse"
	"habitflow/internal/handler"
	"habitflow/internal/httpserver"
	"habitflow/internal/mqhandler"
	"habitflow/internal/repository"
	"habitflow/internal/service"
	"habitflow/pkg/db"
	"habitflow/pkg/logger"
	"habitflow/pkg/mq"
	"habitflow/pkg/redis"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New()
	defer zlog.Sync()

	dbConn, err := db.NewConnection(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("DB initialization failed", zap.Error(err))
	}

	rdb := redis.NewClient(cfg.Redis)

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		zlog.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	userRepo := repository.NewUserRepository(dbConn, zlog)
	taskRepo := repository.NewTaskRepository(dbConn, zlog)
	habitRepo := repository.NewHabitRepository(dbConn, zlog)
	ruleRepo := repository.NewRecurrenceRepository(dbConn, zlog)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	statsService := service.NewStatsService(habitRepo, rdb, zlog)
	habitService := service.NewHabitService(habitRepo, taskRepo, ruleRepo, statsService, publisher, zlog)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, "habitflow.task_generation", "habit.task.generated", zlog)
	if err != nil {
		zlog.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	taskGenHandler := mqhandler.NewHabitTaskGeneratedHandler(taskRepo, zlog)
	consumer.SetHandler(taskGenHandler.Handle)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			zlog.Fatal("consumer start failed", zap.Error(err))
		}
	}()

	authHandler := handler.NewAuthHandler(authService)
	habitHandler := handler.NewHabitHandler(habitService, statsService, zlog)
	taskHandler := handler.NewTaskHandler(taskRepo, zlog)
	parseHandler := handler.NewParseHandler(dateparse.New())

	router := httpserver.NewRouter(
		authHandler,
		habitHandler,
		taskHandler,
		parseHandler,
		cfg.JWT.Secret,
		zlog,
		dbConn,
		consumer,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		zlog.Fatal("server start failed", zap.Error(err))
	}
}
