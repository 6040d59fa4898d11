// @title        Store Rating API
// @version      1.0
// @description  商店評分平台的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"store-rating/internal/cache"
	"store-rating/internal/config"
	"store-rating/internal/database"
	"store-rating/internal/handler"
	"store-rating/internal/obs"
	"store-rating/internal/router"
	"store-rating/internal/service"
	"store-rating/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	elog "github.com/labstack/gommon/log"

	_ "store-rating/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// shutdownTimeout 為收到結束訊號後等待進行中請求的上限
const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	initTracer      = obs.InitTracer
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	setJWTSecret    = service.SetJWTSecret
	ensureAdmin     = service.EnsureAdmin
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

// logLevel 將 LOG_LEVEL 轉為 gommon 的等級，無法辨識時為 INFO
func logLevel(s string) elog.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return elog.DEBUG
	case "warn", "warning":
		return elog.WARN
	case "error":
		return elog.ERROR
	case "off":
		return elog.OFF
	default:
		return elog.INFO
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %v", err)
	}

	setJWTSecret(cfg.JWTSecret)

	shutdown, err := initTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("Tracer 初始化失敗: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("關閉 Tracer 失敗: %v", err)
		}
	}()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	redis, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer redis.Close()

	if cfg.MigrateReset {
		log.Print("MIGRATE_RESET 已啟用，退回所有 migration")
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %v", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	if cfg.BootstrapAdmin() {
		created, err := ensureAdmin(context.Background(), db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("建立初始管理員失敗: %v", err)
		}
		if created {
			log.Printf("已建立初始管理員 %s", cfg.AdminEmail)
		}
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	summaries := &service.RatingSummaries{Cache: redis, Pool: wp, TTL: cfg.CacheTTL}

	lvl := logLevel(cfg.LogLevel)
	elog.SetLevel(lvl)

	e := echo.New()
	e.Logger.SetLevel(lvl)
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("10M"))

	router.Setup(e, db, redis, summaries)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Print("收到結束訊號，關閉服務")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
