package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

var assetRootPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*$`)

type Config struct {
	Port            int           `mapstructure:"PORT"`
	PostsDir        string        `mapstructure:"POSTS_DIR"`
	ImagesDir       string        `mapstructure:"IMAGES_DIR"`
	AssetRoot       string        `mapstructure:"ASSET_ROOT"`
	MaxPostCount    int           `mapstructure:"MAX_POST_COUNT"`
	RenderCacheSize int           `mapstructure:"RENDER_CACHE_SIZE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogPretty       bool          `mapstructure:"LOG_PRETTY"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("POSTS_DIR", "_posts")
	v.SetDefault("IMAGES_DIR", "public/blog-images")
	v.SetDefault("ASSET_ROOT", "blog-images")
	v.SetDefault("MAX_POST_COUNT", 10)
	v.SetDefault("RENDER_CACHE_SIZE", 128)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
}

// Load reads configuration from defaults, the environment and, when path is
// not empty, a config file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.AssetRoot = strings.Trim(cfg.AssetRoot, "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.PostsDir, validation.Required),
		validation.Field(&c.AssetRoot, validation.Required, validation.Match(assetRootPattern)),
		validation.Field(&c.MaxPostCount, validation.Min(0)),
		validation.Field(&c.RenderCacheSize, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}
