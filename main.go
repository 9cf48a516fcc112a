package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/config"
	"attendance-server-go/db"
	"attendance-server-go/handlers"
	"attendance-server-go/logger"
	"attendance-server-go/school"
)

func main() {
	conf, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log, err := logger.New(conf)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(conf, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(conf *config.Config, log *zap.Logger) error {
	if conf.Env == "PROD" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// =========================================================================
	// Storage

	kv, err := openKV(ctx, conf, log.Named("store"))
	if err != nil {
		return err
	}
	store := db.NewStore(kv, conf.Store.Prefix, conf.Store.BackupTTL, log.Named("store"))
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("error closing store", zap.Error(err))
		}
	}()

	registry := school.NewRegistry(store, log.Named("registry"))
	if err := registry.Load(ctx, conf.SeedDefaults); err != nil {
		// the data is served from memory, later saves retry
		log.Error("initial save failed", zap.Error(err))
	}

	// =========================================================================
	// API

	apiHandler := handlers.NewAPIHandler(registry, store, log.Named("http"))
	server := &http.Server{
		Addr:    conf.Server.Addr,
		Handler: handlers.NewRouter(apiHandler, log.Named("http")),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", conf.Server.Addr), zap.String("store", conf.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err, ok := <-serverErrors:
		if ok {
			return err
		}
		return nil

	case sig := <-shutdown:
		log.Info("start shutdown", zap.String("signal", sig.String()))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("could not stop server gracefully", zap.Error(err))
			return server.Close()
		}
	}
	return nil
}

// openKV opens the backend selected by store.driver.
func openKV(ctx context.Context, conf *config.Config, log *zap.Logger) (db.KV, error) {
	switch conf.Store.Driver {
	case config.DriverBadger:
		return db.OpenBadger(conf.Badger.Dir, log)
	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on exit")
		return db.NewMemoryKV(), nil
	default:
		return db.OpenRedis(ctx, db.RedisOptions{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}, log)
	}
}
