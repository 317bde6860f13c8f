package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
)

// configName is the config file name without extension.
const configName = ".commitplot"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for commitplot settings.
const envPrefix = "COMMITPLOT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// variable is set.
func Default() *Config {
	viperCfg := viper.New()
	applyDefaults(viperCfg)

	var cfg Config

	// Defaults always decode.
	_ = viperCfg.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("plot.width", DefaultPlotWidth)
	viperCfg.SetDefault("plot.height", DefaultPlotHeight)
	viperCfg.SetDefault("plot.margins.top", DefaultMarginTop)
	viperCfg.SetDefault("plot.margins.right", DefaultMarginRight)
	viperCfg.SetDefault("plot.margins.bottom", DefaultMarginBottom)
	viperCfg.SetDefault("plot.margins.left", DefaultMarginLeft)
	viperCfg.SetDefault("plot.radius_min", DefaultPlotRadiusMin)
	viperCfg.SetDefault("plot.radius_max", DefaultPlotRadiusMax)
	viperCfg.SetDefault("plot.nice", DefaultPlotNice)

	viperCfg.SetDefault("repository.url_template", commits.DefaultURLTemplate)

	viperCfg.SetDefault("ingest.infer_types", DefaultInferTypes)

	viperCfg.SetDefault("render.theme", DefaultTheme)
	viperCfg.SetDefault("render.title", DefaultTitle)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.environment", "")
}
