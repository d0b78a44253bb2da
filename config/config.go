package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort     string `env:"SERVER_PORT" envDefault:"5000"`
	ServerHost     string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment    string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName    string `env:"SERVICE_NAME" envDefault:"mindbalance"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"v1"`

	// 存储配置：jsonfile 为默认的平面文件存储，postgres / sqlite 走 gorm
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"jsonfile"`
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	RulesFile     string `env:"RULES_FILE"` // 为空时使用 DataDir/suggestions.json
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/mindbalance.db"`

	// PostgreSQL 配置
	PostgreSQLHost     string   `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string   `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string   `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string   `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string   `env:"POSTGRESQL_DATABASE" envDefault:"mindbalance"`
	PostgreSQLSchema   string   `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string   `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int      `env:"POSTGRESQL_MAX_IDLE" envDefault:"10"`
	PostgreSQLMaxOpen  int      `env:"POSTGRESQL_MAX_OPEN" envDefault:"50"`
	PostgreSQLReplicas []string `env:"POSTGRESQL_REPLICAS" envSeparator:","` // 只读副本 DSN 列表

	// Redis 配置，关闭时仪表盘不缓存、限流与消息去重跳过
	RedisEnabled          bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr             string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword         string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix           string `env:"REDIS_PREFIX" envDefault:"mb"`
	DashboardCacheSeconds int    `env:"DASHBOARD_CACHE_SECONDS" envDefault:"300"`

	// RabbitMQ 配置，关闭时打卡事件不投递
	RabbitMQEnabled  bool   `env:"RABBITMQ_ENABLED" envDefault:"false"`
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"480"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	OTelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`

	// 跨域白名单，为空时回显请求 Origin
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	// 速率限制配置（依赖 Redis）
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// 团队风险扫描，每天本地时间 TeamScanHour 点执行
	TeamScanHour int `env:"TEAM_SCAN_HOUR" envDefault:"9"`
}

const developmentJWTSecret = "mindbalance-development-secret"

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}
}

// Validate 校验启动所需的配置，由各个入口在初始化时调用
func Validate() error {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		log.Printf("WARN: JWT_SECRET is not set, using the development secret")
		Cfg.JWTSecret = developmentJWTSecret
	}

	switch Cfg.StorageDriver {
	case "jsonfile", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", Cfg.StorageDriver)
	}

	if Cfg.TeamScanHour < 0 || Cfg.TeamScanHour > 23 {
		return fmt.Errorf("TEAM_SCAN_HOUR must be within 0-23, got %d", Cfg.TeamScanHour)
	}

	if Cfg.RateLimitEnabled && !Cfg.RedisEnabled {
		log.Printf("WARN: RATE_LIMIT_ENABLED requires Redis, rate limiting is disabled")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

// RulesPath 返回建议规则表文件路径
func (c *Config) RulesPath() string {
	if c.RulesFile != "" {
		return c.RulesFile
	}
	return filepath.Join(c.DataDir, "suggestions.json")
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
