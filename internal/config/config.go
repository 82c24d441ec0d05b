package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		_ = godotenv.Load()

		setDefaults()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Warnw("Project root not found, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}

		if !isTestRun() {
			return
		}
		viper.SetConfigName("config_test")
		if err = viper.MergeInConfig(); err != nil {
			GetLogger().Warnw("Error merging test config file", "error", err)
		}
	})
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_path", "/api")
	viper.SetDefault("server.read_header_timeout", "15s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("rate_limiter.backend", "memory")
	viper.SetDefault("rate_limiter.cleanup_timeout", "3m")
	viper.SetDefault("rate_limiter.param.key", "days")
	viper.SetDefault("tracing.service_name", "forecast-api")
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetBasePath returns the route prefix for the forecast resource, without a trailing slash.
func GetBasePath() string {
	initConfig()
	return strings.TrimRight(viper.GetString("server.base_path"), "/")
}

// GetServerTimeout returns server.<key> as a duration, or def when unset or invalid.
func GetServerTimeout(key string, def time.Duration) time.Duration {
	initConfig()
	return parseDuration(viper.GetString("server."+key), def)
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

// GetRateLimiterBackend returns "memory" or "redis".
func GetRateLimiterBackend() string {
	initConfig()
	backend := strings.ToLower(viper.GetString("rate_limiter.backend"))
	if backend != "redis" {
		return "memory"
	}
	return backend
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("rate_limiter.cleanup_timeout"), 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
// Rate is expressed in requests per minute.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 60
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 30
	}
	return
}

// GetParamRateLimiterConfig returns the query key, rate and burst for the per-param rate limiter.
func GetParamRateLimiterConfig() (key string, rate float64, burst int) {
	initConfig()
	key = viper.GetString("rate_limiter.param.key")
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 20
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

func GetTracingServiceName() string {
	initConfig()
	return viper.GetString("tracing.service_name")
}

// GetZipkinURL returns the zipkin collector endpoint. Empty disables exporting.
func GetZipkinURL() string {
	initConfig()
	return viper.GetString("tracing.zipkin_url")
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		level := zapcore.InfoLevel
		if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
			level = zapcore.InfoLevel
		}

		cfg := zap.NewDevelopmentConfig()
		if os.Getenv("ENVIRONMENT") == "production" {
			cfg = zap.NewProductionConfig()
		}
		cfg.Level = zap.NewAtomicLevelAt(level)

		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetTestRedisMockPort returns the listen address used by miniredis in integration tests.
func GetTestRedisMockPort() string {
	initConfig()
	return viper.GetString("test.redis_mock_port")
}
