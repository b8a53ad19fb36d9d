package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`
	LogMode  string `mapstructure:"LOG_MODE"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	SessionSecret  string `mapstructure:"SESSION_SECRET"`
	CookieSecure   bool   `mapstructure:"COOKIE_SECURE"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	VimeoAccessToken string        `mapstructure:"VIMEO_ACCESS_TOKEN"`
	VimeoAPIBase     string        `mapstructure:"VIMEO_API_BASE"`
	VimeoPlayerHost  string        `mapstructure:"VIMEO_PLAYER_HOST"`
	VimeoPerPage     int           `mapstructure:"VIMEO_PER_PAGE"`
	VimeoMaxPages    int           `mapstructure:"VIMEO_MAX_PAGES"`
	VimeoTimeout     time.Duration `mapstructure:"VIMEO_TIMEOUT"`
	VimeoCacheTTL    time.Duration `mapstructure:"VIMEO_CACHE_TTL"`

	// Both policies are product decisions and have no default.
	CatalogPreviewPolicy string `mapstructure:"CATALOG_PREVIEW_POLICY"`
	AdminPayloadPolicy   string `mapstructure:"ADMIN_PAYLOAD_POLICY"`
}

var keys = []string{
	"PORT", "GRPC_PORT", "LOG_MODE",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"REDIS_ADDR",
	"SESSION_SECRET", "COOKIE_SECURE", "ALLOWED_ORIGINS",
	"VIMEO_ACCESS_TOKEN", "VIMEO_API_BASE", "VIMEO_PLAYER_HOST",
	"VIMEO_PER_PAGE", "VIMEO_MAX_PAGES", "VIMEO_TIMEOUT", "VIMEO_CACHE_TTL",
	"CATALOG_PREVIEW_POLICY", "ADMIN_PAYLOAD_POLICY",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":9090")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "kbc")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("VIMEO_API_BASE", "https://api.vimeo.com")
	v.SetDefault("VIMEO_PLAYER_HOST", "player.vimeo.com")
	v.SetDefault("VIMEO_PER_PAGE", 50)
	v.SetDefault("VIMEO_MAX_PAGES", 50)
	v.SetDefault("VIMEO_TIMEOUT", 10*time.Second)
	v.SetDefault("VIMEO_CACHE_TTL", 60*time.Second)

	v.AutomaticEnv()

	// Bind explicitly so viper sees env vars without a file
	for _, k := range keys {
		if err = v.BindEnv(k); err != nil {
			return
		}
	}

	// The file is optional, env is enough
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// Validate checks settings the process cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if strings.TrimSpace(c.CatalogPreviewPolicy) == "" {
		return fmt.Errorf("CATALOG_PREVIEW_POLICY is required (first-two|none)")
	}
	if strings.TrimSpace(c.AdminPayloadPolicy) == "" {
		return fmt.Errorf("ADMIN_PAYLOAD_POLICY is required (lenient|strict)")
	}
	return nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(c.LogMode) {
	case "prod", "production":
		return true
	}
	return false
}
