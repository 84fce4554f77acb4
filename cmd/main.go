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

	"github.com/dtroode/glowbook-server/database"
	grpcctx "github.com/dtroode/glowbook-server/internal/api/grpc/context"
	grpcrouter "github.com/dtroode/glowbook-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/glowbook-server/internal/api/grpc/server"
	"github.com/dtroode/glowbook-server/internal/api/http/handler"
	httprouter "github.com/dtroode/glowbook-server/internal/api/http/router"
	httpserver "github.com/dtroode/glowbook-server/internal/api/http/server"
	"github.com/dtroode/glowbook-server/internal/app"
	"github.com/dtroode/glowbook-server/internal/auth"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/mail"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/server"
	"github.com/dtroode/glowbook-server/internal/service"
	storage "github.com/dtroode/glowbook-server/internal/storage/minio"
	"github.com/dtroode/glowbook-server/internal/token"
	"github.com/dtroode/glowbook-server/internal/tracing"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

type listeningServer struct {
	server        model.Server
	securityLayer model.SecurityLayer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	database.SetLogger(logger.Logger)

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTel)
	if err != nil {
		logger.Fatal("failed to set up tracing", "error", err)
	}

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer stores.Close()

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize object storage", "error", err)
	}

	mailer, err := newMailer(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("failed to initialize mailer", "error", err)
	}

	hasher := auth.NewBcrypt(cfg.BcryptCost)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	verification := service.NewVerification(stores.Accounts, stores.Verifications, mailer, cfg.Verification, logger)
	signup := service.NewSignup(stores.Accounts, hasher, verification, logger)
	sessions := service.NewSessions(stores.Accounts, stores.Sessions, tokenManager, hasher, logger)
	profile := service.NewProfile(stores.Accounts, stores.Drafts, stores.Documents, sessions, logger)
	documents := service.NewDocuments(stores.Accounts, stores.Documents, stores.Drafts, objects, cfg.Storage.MaxUpload, logger)

	sweeper := service.NewTokenSweeper(stores.Verifications, cfg.Verification.SweepInterval, cfg.Verification.SweepRetention, logger)
	go sweeper.Run(ctx)

	h := handler.New(signup, verification, profile, sessions, documents, cfg.Storage.MaxUpload, logger)
	checks := map[string]httprouter.HealthCheck{
		"database": stores.Ping,
		"storage":  objects.Ping,
	}
	httpHandler := httprouter.New(cfg.HTTP, cfg.RateLimit, h, sessions, checks, buildVersion, logger).Register()

	grpcRouter := grpcrouter.New(sessions, sessions, grpcctx.NewManager(), logger)

	servers := []listeningServer{
		{
			server:        httpserver.NewHTTPServer(httpHandler, fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP),
			securityLayer: server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
		},
		{
			server:        grpcserver.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
			securityLayer: server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName),
		},
	}

	var wg sync.WaitGroup
	for _, ls := range servers {
		wg.Add(1)
		go func(ls listeningServer) {
			defer wg.Done()
			logger.Info("Starting server",
				"server", ls.server.Name(),
				"address", ls.server.Address())
			if err := ls.server.Start(ls.securityLayer); err != nil {
				logger.Error("server stopped with error",
					"server", ls.server.Name(),
					"error", err)
				stop()
			}
		}(ls)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	grpcRouter.Health().Shutdown()
	for _, ls := range servers {
		if err := ls.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown",
				"server", ls.server.Name(),
				"address", ls.server.Address(),
				"error", err)
		}
	}
	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}
	logger.Info("shutdown complete")
}

func newMailer(cfg config.Mail, logger *logger.Logger) (model.Mailer, error) {
	if cfg.Mailer == config.MailerSMTP {
		smtp, err := mail.NewSMTP(cfg, logger)
		if err != nil {
			return nil, err
		}
		return smtp, nil
	}
	return mail.NewLog(logger), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
