package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/config"
	"github.com/libtrack/lending-service/internal/handler"
	"github.com/libtrack/lending-service/internal/repository"
	"github.com/libtrack/lending-service/internal/repository/memory"
	pgrepo "github.com/libtrack/lending-service/internal/repository/postgres"
	"github.com/libtrack/lending-service/internal/server"
	"github.com/libtrack/lending-service/internal/service"
	"github.com/libtrack/lending-service/migrations"
	"github.com/libtrack/lending-service/pkg/kafka"
	"github.com/libtrack/lending-service/pkg/logger"
	"github.com/libtrack/lending-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "lending")

	var (
		repo repository.Repository
		pool *pgxpool.Pool
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repo = memory.NewRepository(log)
	default:
		var err error
		pool, err = postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			log.Fatal("db init", zap.Error(err))
		}
		repo, err = pgrepo.NewRepository(pool, log)
		if err != nil {
			log.Fatal("repo", zap.Error(err))
		}
	}

	var events *service.Events
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		events = service.NewEvents(producer, cfg.Kafka.Topic)
	}

	readerSvc := service.NewReaders(repo, log)
	catalogSvc := service.NewCatalog(repo, log)
	lendingSvc := service.NewLending(repo, events, log)

	h := handler.New(readerSvc, catalogSvc, lendingSvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if events != nil {
		if err := events.Close(); err != nil {
			log.Error("events.Close", zap.Error(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
	log.Info("Graceful shutdown finished")
}
