package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quirknotes/internal/auth"
	"quirknotes/internal/config"
	apphttp "quirknotes/internal/http"
	"quirknotes/internal/repository"
	"quirknotes/internal/repository/memory"
	"quirknotes/internal/repository/postgres"
	"quirknotes/internal/repository/sqlite"
	"quirknotes/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.Log.Level)
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, notes, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer closeDB()

	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := notes.Init(ctx); err != nil {
		logger.Fatalf("init note repository: %v", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatalf("setup password hasher: %v", err)
	}
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatalf("setup token service: %v", err)
	}

	userService := service.NewUserService(users, hasher, tokens)
	noteService := service.NewNoteService(notes, users, service.NoteServiceOptions{
		HideForeignNotes: cfg.Auth.HideForeignNotes,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, noteService, tokens, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.NoteRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		store := memory.NewStore()
		return store.Users(), store.Notes(), func() {}, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Info("using postgres store")
		return postgres.NewUserRepository(db), postgres.NewNoteRepository(db), closer(db, logger), nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using sqlite store at %s", cfg.Database.Path)
		return sqlite.NewUserRepository(db), sqlite.NewNoteRepository(db), closer(db, logger), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func closer(db *sql.DB, logger *logrus.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warnf("close database: %v", err)
		}
	}
}
