package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/app"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/auth"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/categories"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/comms"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/inventory"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/cache"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/db"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/roles"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/tenants"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/till"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	tenantRepo := tenants.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	roleRepo := roles.NewRepository(pool)

	roleCache := authz.NewRoleCache(roleRepo, cfg.RoleCacheTTL)
	guard := authz.NewGuard(userRepo, roleCache, logger, cfg.BranchHeader)

	tokenStore := auth.NewTokenStore(redisClient, cfg.AuthTokenTTL)
	authService := auth.NewService(userRepo, tokenStore)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	roleService := roles.NewService(roleRepo, roleCache)
	roleHandler := roles.NewHandler(logger, roleService, guard)

	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService, guard)

	categoryRepo := categories.NewRepository(pool)
	categoryHandler := categories.NewHandler(categoryRepo, guard)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, asynqClient, logger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService, guard)

	tillRepo := till.NewRepository(pool)
	tillService := till.NewService(tillRepo)
	tillHandler := till.NewHandler(logger, tillService, guard)

	commsService := comms.NewService(asynqClient)
	commsHandler := comms.NewHandler(logger, commsService, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Tenants:           tenantRepo,
		AuthMiddleware:    authMiddleware,
		AuthHandler:       authHandler,
		RolesHandler:      roleHandler,
		UsersHandler:      userHandler,
		CategoriesHandler: categoryHandler,
		InventoryHandler:  inventoryHandler,
		TillHandler:       tillHandler,
		CommsHandler:      commsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
