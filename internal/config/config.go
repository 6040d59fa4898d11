// File: internal/config/config.go
package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 服務的所有設定，皆由環境變數讀取
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// 啟動時先退回所有 migration 再重建，會清空資料，僅供開發環境
	MigrateReset bool `envconfig:"MIGRATE_RESET" default:"false"`

	RedisAddr     string `envconfig:"REDIS_ADDR" required:"true"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:":8080"`
	WorkerCount int           `envconfig:"WORKER_COUNT" default:"1"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3001"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`

	// 啟動時建立的初始管理員，Email 與密碼皆設定時才生效
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"store-rating"`
}

var (
	loadDotEnv = godotenv.Load
	process    = envconfig.Process
)

// Load 讀取 .env（若存在）後解析環境變數
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("讀取 .env 失敗: %v", err)
	}

	var c Config
	if err := process("", &c); err != nil {
		return Config{}, err
	}
	if c.WorkerCount <= 0 {
		return Config{}, errors.New("WORKER_COUNT must be positive")
	}
	return c, nil
}

// BootstrapAdmin 回報是否需要建立初始管理員
func (c Config) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}
