package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/approver/internal/api/grpc/context"
	"github.com/dtroode/approver/internal/api/grpc/router"
	grpcServer "github.com/dtroode/approver/internal/api/grpc/server"
	adminhttp "github.com/dtroode/approver/internal/api/http"
	"github.com/dtroode/approver/internal/cache/memory"
	"github.com/dtroode/approver/internal/config"
	"github.com/dtroode/approver/internal/crypto"
	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/metrics"
	"github.com/dtroode/approver/internal/model"
	"github.com/dtroode/approver/internal/poller"
	"github.com/dtroode/approver/internal/push"
	"github.com/dtroode/approver/internal/repository/postgres"
	"github.com/dtroode/approver/internal/sdk/httpapi"
	"github.com/dtroode/approver/internal/server"
	"github.com/dtroode/approver/internal/service"
	storage "github.com/dtroode/approver/internal/storage/minio"
	"github.com/dtroode/approver/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db.DB)
	outcomeRepo := postgres.NewOutcomeRepository(db.DB)
	accounts := memory.NewAccountCache(accountRepo, cfg.Approval.AccountCacheTTL)

	api := httpapi.New(cfg.API.BaseURL, cfg.API.Timeout)

	extras, err := crypto.NewExtrasCipher([]byte(cfg.Crypto.ExtrasMasterKey))
	if err != nil {
		logger.Fatal("failed to initialize extras cipher", "error", err)
	}
	offline, err := crypto.NewOfflineCodes([]byte(cfg.Crypto.OfflineCodeKey))
	if err != nil {
		logger.Fatal("failed to initialize offline codes", "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	blobs, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to parse redis url", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	approval := service.NewApproval(ctx, api, api, extras, offline, accounts, logger,
		service.WithMetrics(appMetrics),
		service.WithOutcomeStore(outcomeRepo),
		service.WithTickInterval(cfg.Approval.TickInterval),
	)

	tokens := token.NewJWT(cfg.JWT.Secret, token.DefaultTTL)
	grpcSrv := registerGRPCServer(approval, accounts, tokens, logger, fmt.Sprintf(":%s", cfg.GRPC.Port))
	adminSrv := adminhttp.NewServer(
		adminhttp.NewRouter(db, outcomeRepo, registry, logger).Register(),
		cfg.HTTP.Addr,
	)

	subscriber := push.NewSubscriber(redisClient, cfg.Redis.Channel, blobs, approval, logger)

	g, gctx := errgroup.WithContext(ctx)

	startServer(g, logger, grpcSrv, server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName))
	startServer(g, logger, adminSrv, server.NewPlainListener())

	g.Go(func() error {
		return subscriber.Run(gctx)
	})

	if cfg.Approval.PollInterval > 0 {
		p := poller.New(accountRepo, api, approval, cfg.Approval.PollInterval, logger)
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, s := range []model.Server{grpcSrv, adminSrv} {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.Address())
			}
		}
		approval.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("approverd stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func startServer(g *errgroup.Group, logger *logger.Logger, s model.Server, sl model.SecurityLayer) {
	g.Go(func() error {
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			return fmt.Errorf("server %s: %w", s.Address(), err)
		}
		return nil
	})
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	orchestrator model.Orchestrator,
	accounts model.AccountDirectory,
	tokens model.TokenManager,
	logger *logger.Logger,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(orchestrator, accounts, tokens, grpcctx.NewManager(), logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
