package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/depositflow-backend/internal/adapter/grpc"
	"github.com/simaogato/depositflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/depositflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/depositflow-backend/internal/config"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/funding"
	"github.com/simaogato/depositflow-backend/internal/usecase/seeder"
	"github.com/simaogato/depositflow-backend/pkg/logger"
)

type repositories struct {
	customers  domain.CustomerRepository
	portfolios domain.PortfolioRepository
	plans      domain.DepositPlanRepository
	close      func() error
}

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New(logger.Config{Level: "error"})
		bootstrap.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Logger.Level, Pretty: cfg.Logger.Pretty})
	logger.SetGlobalLogger(log)

	ctx := context.Background()

	// 2. Initialize Repositories
	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open repositories")
	}
	defer repos.close()

	// 3. Seed the demo customer
	if cfg.Seed.Demo {
		demoSeeder := seeder.NewDemoSeeder(repos.customers, repos.portfolios, repos.plans)
		if err := demoSeeder.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo customer")
		}
		log.Info().Str("reference_code", seeder.DEMO_REFERENCE_CODE).Msg("Demo customer seeded")
	}

	// 4. Initialize Services (Use Cases)
	fundingService := funding.NewFundingService(repos.customers, repos.plans, log)

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)

	grpcadapter.RegisterAllocationServer(grpcServer, grpcadapter.NewServer(fundingService, repos.portfolios))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.Port)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Server.Port).Msg("Failed to listen")
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, log)
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver != config.DriverPostgres {
		return &repositories{
			customers:  memory.NewCustomerRepository(),
			portfolios: memory.NewPortfolioRepository(),
			plans:      memory.NewDepositPlanRepository(),
			close:      func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(cfg.ConnString())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		customers:  postgres.NewCustomerRepository(db),
		portfolios: postgres.NewPortfolioRepository(db),
		plans:      postgres.NewDepositPlanRepository(db),
		close:      db.Close,
	}, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")
}
