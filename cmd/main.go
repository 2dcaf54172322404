package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpctx "github.com/dtroode/notekeeper-server/internal/api/http/context"
	"github.com/dtroode/notekeeper-server/internal/api/http/router"
	"github.com/dtroode/notekeeper-server/internal/config"
	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/mailer"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/repository/postgres"
	"github.com/dtroode/notekeeper-server/internal/server"
	"github.com/dtroode/notekeeper-server/internal/service"
	"github.com/dtroode/notekeeper-server/internal/session"
	"github.com/dtroode/notekeeper-server/internal/store"
	"github.com/dtroode/notekeeper-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	resetTokenRepo := postgres.NewResetTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	broker := session.NewBroker()
	defer broker.Stop()

	authService := service.NewAuth(
		userRepo,
		resetTokenRepo,
		refreshTokenRepo,
		tokenManager,
		mailer.NewLog(logger),
		broker,
		cfg.App.PublicURL,
		logger,
	)
	stores := store.NewManager(noteRepo, categoryRepo)
	ctxMgr := httpctx.NewManager()

	httpServer := registerHTTPServer(authService, stores, broker, ctxMgr, cfg, logger)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	authService *service.Auth,
	stores *store.Manager,
	broker *session.Broker,
	ctxMgr model.ContextManager,
	cfg *config.Config,
	logger *logger.Logger,
) *server.HTTPServer {
	r := router.New(
		authService,
		stores,
		broker,
		ctxMgr,
		cfg.App.AllowedOrigins,
		cfg.App.RootPublic,
		logger,
	)

	return server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
}
