package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"habitflow/config"
	"habitflow/internal/repository"
	"habitflow/internal/service"
	"habitflow/internal/util"
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

	habitRepo := repository.NewHabitRepository(dbConn, zlog)
	taskRepo := repository.NewTaskRepository(dbConn, zlog)
	ruleRepo := repository.NewRecurrenceRepository(dbConn, zlog)

	// The dedup TTL outlives the day so a restart can't double-generate.
	deduper := util.NewDeduper(rdb, 25*time.Hour)

	scheduler := service.NewScheduler(habitRepo, taskRepo, ruleRepo, publisher, deduper, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute
	zlog.Info("Scheduler starting", zap.Duration("interval", interval))
	scheduler.Run(ctx, interval)
}
