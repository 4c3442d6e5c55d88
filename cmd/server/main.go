package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"electromart/config"
	"electromart/internal/delivery"
	"electromart/internal/domain"
	"electromart/internal/repository"
	"electromart/internal/seed"
	"electromart/internal/upload"
	"electromart/internal/usecase"
	"electromart/pkg/db"

	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := setupLogger("info")

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	logger.Info("Starting ElectroMart...")

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	if cfg.SeedDemoData {
		if err := seed.Demo(repos.Users, repos.Products, logger); err != nil {
			logger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	uploads, err := upload.NewStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize upload storage: %v", err)
	}

	userUC := usecase.NewUserUseCase(repos.Users, logger)
	catalogUC := usecase.NewCatalogUseCase(repos.Products, logger)
	cartUC := usecase.NewCartUseCase(repos.Carts, repos.Products, logger)
	orderUC := usecase.NewOrderUseCase(repos.Orders, repos.Carts, repos.Products, logger)
	commentUC := usecase.NewCommentUseCase(repos.Comments, repos.Orders, logger)
	reportUC := usecase.NewReportUseCase(repos.Users, repos.Products, repos.Orders, logger)

	sessions := delivery.NewSessionManager([]byte(cfg.SessionKey), cfg.CookieSecure, logger)
	renderer, err := delivery.NewRenderer("templates", sessions, logger)
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	router := delivery.NewRouter(delivery.RouterDeps{
		Auth:      delivery.NewAuthHandler(userUC, sessions, renderer, logger),
		Catalog:   delivery.NewCatalogHandler(catalogUC, uploads, sessions, renderer, logger),
		Cart:      delivery.NewCartHandler(cartUC, sessions, renderer, logger),
		Orders:    delivery.NewOrderHandler(orderUC, commentUC, cartUC, sessions, renderer, logger),
		Seller:    delivery.NewSellerHandler(catalogUC, orderUC, reportUC, uploads, sessions, renderer, logger),
		Admin:     delivery.NewAdminHandler(userUC, orderUC, reportUC, sessions, renderer, logger),
		Sessions:  sessions,
		Users:     repos.Users,
		UploadDir: cfg.UploadDir,
		Log:       logger,
	})

	csrfProtect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      csrfProtect(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Info("ElectroMart shut down gracefully.")
}

type repositories struct {
	Users    domain.UserRepository
	Products domain.ProductRepository
	Carts    domain.CartRepository
	Orders   domain.OrderRepository
	Comments domain.CommentRepository
}

// buildRepositories picks the storage backend: PostgreSQL when DATABASE_URL
// is set, the JSON file store otherwise.
func buildRepositories(cfg *config.Config, logger *logrus.Logger) (*repositories, func(), error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection established successfully.")

		if err := repository.InitSchema(conn, logger); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}

		repos := &repositories{
			Users:    repository.NewPostgresUserRepository(conn, logger),
			Products: repository.NewPostgresProductRepository(conn, logger),
			Carts:    repository.NewPostgresCartRepository(conn, logger),
			Orders:   repository.NewPostgresOrderRepository(conn, logger),
			Comments: repository.NewPostgresCommentRepository(conn, logger),
		}
		cleanup := func() {
			if err := conn.Close(); err != nil {
				logger.Errorf("Error closing database connection: %v", err)
			} else {
				logger.Info("Database connection closed.")
			}
		}
		return repos, cleanup, nil
	}

	if dir := filepath.Dir(cfg.DataFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	store, err := repository.NewJSONStore(cfg.DataFile, logger)
	if err != nil {
		return nil, nil, err
	}
	repos := &repositories{
		Users:    store,
		Products: store,
		Carts:    store,
		Orders:   store,
		Comments: store,
	}
	return repos, func() {}, nil
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
