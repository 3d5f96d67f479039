package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "shareit-backend/internal/api/grpc"
	httpapi "shareit-backend/internal/api/http"
	"shareit-backend/internal/config"
	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
	"shareit-backend/internal/repository/memory"
	"shareit-backend/internal/repository/postgres"
	"shareit-backend/internal/repository/postgres/migrations"
	"shareit-backend/internal/service"
)

// store is what the server needs from either storage backend.
type store struct {
	users    repository.UserRepository
	items    repository.ItemRepository
	bookings repository.BookingRepository
	requests repository.ItemRequestRepository
	comments repository.CommentRepository
	locker   repository.BookingLocker
	pinger   grpcapi.Pinger
	close    func() error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ShareIt backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_port", cfg.Server.GRPCPort)
	logger.Info("Booking policy", "reject_past_start", cfg.Booking.RejectPastStart)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.close()

	// Initialize Services
	clock := domain.RealClock{}
	userSvc := service.NewUserService(st.users)
	itemSvc := service.NewItemService(st.items, st.users, st.bookings, st.comments, st.requests, clock)
	bookingSvc := service.NewBookingService(st.bookings, st.items, st.users, st.locker, clock,
		service.BookingPolicy{RejectPastStart: cfg.Booking.RejectPastStart})
	requestSvc := service.NewItemRequestService(st.requests, st.items, st.users, clock)

	handler := httpapi.NewHandler(userSvc, itemSvc, bookingSvc, requestSvc)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	grpcServer := grpcapi.NewServer(st.pinger)
	if cfg.Server.GRPCPort != 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		go func() {
			logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return &store{
			users:    s.UserRepository,
			items:    s.ItemRepository,
			bookings: s.BookingRepository,
			requests: s.ItemRequestRepository,
			comments: s.CommentRepository,
			locker:   s,
			pinger:   s,
			close:    func() error { return nil },
		}, nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host,
		"port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := postgres.Open(ctx, cfg.Database.Driver, cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db.DB); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database migrations applied")
	} else if err := migrations.CheckStatus(db.DB); err != nil {
		logger.Warn("Database schema is not current; run cmd/migrate up", "error", err)
	}

	s := postgres.NewStore(db)
	return &store{
		users:    s.UserRepository,
		items:    s.ItemRepository,
		bookings: s.BookingRepository,
		requests: s.ItemRequestRepository,
		comments: s.CommentRepository,
		locker:   s,
		pinger:   s,
		close:    db.Close,
	}, nil
}
