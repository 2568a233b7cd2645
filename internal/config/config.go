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
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Agent    AgentConfig    `yaml:"agent" mapstructure:"agent"`
	Vision   VisionConfig   `yaml:"vision" mapstructure:"vision"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PathsConfig holds the working directories and files.
type PathsConfig struct {
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
	CacheDir     string `yaml:"cache_dir" mapstructure:"cache_dir"`
	RequestsFile string `yaml:"requests_file" mapstructure:"requests_file"`
	FlyerDir     string `yaml:"flyer_dir" mapstructure:"flyer_dir"`
	FlyerCSV     string `yaml:"flyer_csv" mapstructure:"flyer_csv"`
	FlyerLog     string `yaml:"flyer_log" mapstructure:"flyer_log"`
}

// ResolverConfig holds the resolution thresholds and past-event cutoff.
// The cutoff year is a deliberate policy constant rather than the current
// year, so behavior does not shift silently at year end.
type ResolverConfig struct {
	Threshold         float64 `yaml:"threshold" mapstructure:"threshold"`
	InferredThreshold float64 `yaml:"inferred_threshold" mapstructure:"inferred_threshold"`
	FallbackThreshold float64 `yaml:"fallback_threshold" mapstructure:"fallback_threshold"`
	CutoffYear        int     `yaml:"cutoff_year" mapstructure:"cutoff_year"`
}

// AgentConfig holds the research agent service settings.
type AgentConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Model   string  `yaml:"model" mapstructure:"model"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// VisionConfig holds the flyer extraction model settings.
type VisionConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the mission history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.output_dir", "outputs")
	v.SetDefault("paths.cache_dir", "knowledge_cache")
	v.SetDefault("paths.requests_file", "races.json")
	v.SetDefault("paths.flyer_dir", "input_folder")
	v.SetDefault("paths.flyer_csv", "event_data.csv")
	v.SetDefault("paths.flyer_log", "processed_images.log")
	v.SetDefault("resolver.threshold", 0.65)
	v.SetDefault("resolver.inferred_threshold", 0.45)
	v.SetDefault("resolver.fallback_threshold", 0.1)
	v.SetDefault("resolver.cutoff_year", 2025)
	v.SetDefault("agent.key", "")
	v.SetDefault("agent.base_url", "https://api.mistral.ai")
	v.SetDefault("agent.model", "mistral-large-latest")
	v.SetDefault("agent.rps", 1)
	v.SetDefault("vision.key", "")
	v.SetDefault("vision.model", "claude-haiku-4-5-20251001")
	v.SetDefault("vision.concurrency", 3)
	v.SetDefault("store.path", "scout.db")
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
