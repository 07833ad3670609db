package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Vendor store.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Remote AI endpoint. AIEndpointURL is what search sessions call; the
	// Gemini settings back the endpoint served by this binary.
	AIEndpointURL              string `mapstructure:"AI_ENDPOINT_URL"`
	AITimeoutSeconds           int    `mapstructure:"AI_TIMEOUT_SECONDS"`
	GeminiAPIKey               string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel                string `mapstructure:"GEMINI_MODEL"`
	TranslationCacheTTLMinutes int    `mapstructure:"TRANSLATION_CACHE_TTL_MINUTES"`

	// Platform capabilities.
	SpeechEnabled            bool   `mapstructure:"SPEECH_ENABLED"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GeoLookupURL             string `mapstructure:"GEO_LOOKUP_URL"`

	SessionIdleMinutes int `mapstructure:"SESSION_IDLE_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "lokai")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("AI_ENDPOINT_URL", "http://localhost:8080/functions/v1/search-services")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 20)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("TRANSLATION_CACHE_TTL_MINUTES", 24*60)
	viper.SetDefault("SPEECH_ENABLED", false)
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	viper.SetDefault("GEO_LOOKUP_URL", "https://ipapi.co")
	viper.SetDefault("SESSION_IDLE_MINUTES", 30)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AITimeout is the HTTP timeout applied to remote AI endpoint calls.
func AITimeout() time.Duration {
	if AppConfig.AITimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(AppConfig.AITimeoutSeconds) * time.Second
}

// TranslationCacheTTL is how long LLM translations stay in Redis.
func TranslationCacheTTL() time.Duration {
	return time.Duration(AppConfig.TranslationCacheTTLMinutes) * time.Minute
}

// SessionIdleTimeout is how long an untouched search session is kept.
func SessionIdleTimeout() time.Duration {
	if AppConfig.SessionIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(AppConfig.SessionIdleMinutes) * time.Minute
}
