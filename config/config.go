// Package config 从环境变量 (以及可选的 .env 文件) 读取运行配置
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// 邮编区域数据源类型
const (
	SourceMongo    = "mongo"
	SourcePostgres = "postgres"
)

// Config 进程级配置
type Config struct {
	HTTPAddr     string
	RegionSource string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	AdminUsername string
	AdminPassword string
	SeedFile      string

	LogLevel  string
	LogFormat string
	GinMode   string
}

// Load 读取配置；.env 不存在时忽略
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTPAddr:     getEnvOrDefault("HTTP_ADDR", ":8080"),
		RegionSource: strings.ToLower(getEnvOrDefault("REGION_SOURCE", SourceMongo)),

		MongoURI:        getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnvOrDefault("MONGO_DATABASE", "vikrant_db"),
		MongoCollection: getEnvOrDefault("MONGO_COLLECTION", "pincode_DB"),

		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "pincode"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "pincode"),
		DBName:     getEnvOrDefault("DB_NAME", "pincode"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SeedFile:      os.Getenv("SEED_FILE"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "console"),
		GinMode:   getEnvOrDefault("GIN_MODE", "release"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	switch c.RegionSource {
	case SourceMongo, SourcePostgres:
	default:
		return fmt.Errorf("REGION_SOURCE 必须是 %q 或 %q，当前为 %q", SourceMongo, SourcePostgres, c.RegionSource)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET 未设置")
	}
	return nil
}

// PostgresDSN 拼接 gorm/pgx 使用的 DSN
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
