package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Memegen   MemegenConfig   `mapstructure:"memegen"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Trends    TrendsConfig    `mapstructure:"trends"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// MemegenConfig points at the memegen.link API. BaseURL serves the template
// catalog; ImageBaseURL prefixes the image URLs handed back to clients.
type MemegenConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	CatalogTTL   time.Duration `mapstructure:"catalog_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ProvidersConfig struct {
	Groq   ProviderConfig `mapstructure:"groq"`
	Gemini ProviderConfig `mapstructure:"gemini"`
}

type TrendsConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Engine  string        `mapstructure:"engine"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the optional shared template catalog tier.
// An empty RedisURL keeps the catalog purely in-process.
type CacheConfig struct {
	RedisURL  string `mapstructure:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8787)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("memegen.base_url", "https://api.memegen.link")
	v.SetDefault("memegen.image_base_url", "https://api.memegen.link")
	v.SetDefault("memegen.catalog_ttl", time.Hour)
	v.SetDefault("memegen.timeout", 10*time.Second)
	v.SetDefault("providers.groq.name", "groq")
	v.SetDefault("providers.groq.model", "llama3-8b-8192")
	v.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.groq.temperature", 0.9)
	v.SetDefault("providers.groq.max_tokens", 40)
	v.SetDefault("providers.groq.timeout", 30*time.Second)
	v.SetDefault("providers.gemini.name", "gemini")
	v.SetDefault("providers.gemini.model", "gemini-1.5-flash")
	v.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("providers.gemini.temperature", 0.9)
	v.SetDefault("providers.gemini.max_tokens", 40)
	v.SetDefault("providers.gemini.timeout", 30*time.Second)
	v.SetDefault("trends.base_url", "https://serpapi.com")
	v.SetDefault("trends.engine", "google_trends_trending_now")
	v.SetDefault("trends.timeout", 15*time.Second)
	v.SetDefault("cache.key_prefix", "trendmeme:")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets and the dev-server port keep their historical env names.
	// Earlier names win when several are set.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("providers.groq.api_key", "VITE_GROQ_API_KEY", "GROQ_API_KEY")
	v.BindEnv("providers.gemini.api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	v.BindEnv("trends.api_key", "VITE_SERPAPI_KEY", "SERPAPI_KEY")
	v.BindEnv("cache.redis_url", "REDIS_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
