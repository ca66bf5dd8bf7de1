package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Papers      PapersConfig      `yaml:"papers" mapstructure:"papers"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Clock       ClockConfig       `yaml:"clock" mapstructure:"clock"`
	OpenWeather OpenWeatherConfig `yaml:"openweather" mapstructure:"openweather"`
	NASA        NASAConfig        `yaml:"nasa" mapstructure:"nasa"`
	USGS        USGSConfig        `yaml:"usgs" mapstructure:"usgs"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the record store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PapersConfig configures where uploaded source documents are kept.
type PapersConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ExtractConfig configures PDF text extraction.
type ExtractConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the document analysis server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ClockConfig configures the planetary dashboard server.
type ClockConfig struct {
	Port          int    `yaml:"port" mapstructure:"port"`
	LocationsPath string `yaml:"locations_path" mapstructure:"locations_path"`
}

// OpenWeatherConfig holds OpenWeatherMap API settings.
type OpenWeatherConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NASAConfig holds NASA InSight API settings.
type NASAConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// USGSConfig holds USGS earthquake feed settings.
type USGSConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PAPERMINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one, even when it is empty: AutomaticEnv only
	// resolves keys viper already knows about.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "paperminer.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("papers.dir", "papers")
	v.SetDefault("extract.provider", "native")
	v.SetDefault("extract.pdftotext_path", "pdftotext")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("clock.port", 8001)
	v.SetDefault("clock.locations_path", "")
	v.SetDefault("openweather.key", "")
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org")
	v.SetDefault("nasa.key", "DEMO_KEY")
	v.SetDefault("nasa.base_url", "https://api.nasa.gov")
	v.SetDefault("usgs.base_url", "https://earthquake.usgs.gov")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
