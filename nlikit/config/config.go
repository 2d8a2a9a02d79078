package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/nli-datakit/nlikit"

	"github.com/spf13/viper"
)

// Config stores all configuration of the data module.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Loader LoaderConfig `mapstructure:"loader"`
}

// DataConfig stores dataset construction settings for the three splits.
type DataConfig struct {
	TrainPath string `mapstructure:"trainPath"`
	ValPath   string `mapstructure:"valPath"`
	TestPath  string `mapstructure:"testPath"`

	// Per-split row caps; -1 means unlimited.
	TrainSamples int `mapstructure:"trainSamples"`
	ValSamples   int `mapstructure:"valSamples"`
	TestSamples  int `mapstructure:"testSamples"`

	// Mode selects the instance shape and label encoding:
	// "pair" = dual-encoder instances with signed labels,
	// "concat" = single-encoder [CLS] s1 [SEP] s2 [SEP] instances with
	// 3-way labels.
	Mode string `mapstructure:"mode"`

	MaxLength int `mapstructure:"maxLength"`

	// InMemory selects eager materialization (tokenize the whole corpus at
	// construction) vs lazy per-access tokenization.
	InMemory bool `mapstructure:"inMemory"`

	// Ordering is one of "natural", "shuffle", "bysize".
	Ordering string `mapstructure:"ordering"`

	// Seed drives the shuffle ordering; 0 means non-deterministic.
	Seed int64 `mapstructure:"seed"`

	// CachePath points at a libsql database used to cache tokenized
	// instances between runs. Empty disables the cache.
	CachePath string `mapstructure:"cachePath"`
}

// LoaderConfig stores batch loader settings.
type LoaderConfig struct {
	BatchSize  int  `mapstructure:"batchSize"`
	NumWorkers int  `mapstructure:"numWorkers"`
	EvalOnly   bool `mapstructure:"evalOnly"`
}

// Recognized values for DataConfig.Mode.
const (
	ModePair   = "pair"
	ModeConcat = "concat"
)

// Recognized values for DataConfig.Ordering.
const (
	OrderingNatural = "natural"
	OrderingShuffle = "shuffle"
	OrderingBySize  = "bysize"
)

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("data.trainSamples", -1)
	viper.SetDefault("data.valSamples", -1)
	viper.SetDefault("data.testSamples", -1)
	viper.SetDefault("data.maxLength", internal.DefaultMaxLength)
	viper.SetDefault("data.inMemory", true)
	viper.SetDefault("data.ordering", OrderingNatural)
	viper.SetDefault("loader.numWorkers", internal.DefaultNumWorkers)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. data.trainPath becomes DATA_TRAINPATH

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	AppConfig = Config{}
	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Legacy configs expose the mode choice as a single boolean ("dpsa"):
	// true means pair instances with signed labels, false means concatenated
	// instances with 3-way labels. Honor it as an alias when the mode key is
	// not set explicitly, and default to pair mode.
	if AppConfig.Data.Mode == "" {
		AppConfig.Data.Mode = ModePair
		if viper.IsSet("dpsa") && !viper.GetBool("dpsa") {
			AppConfig.Data.Mode = ModeConcat
		}
	}

	return &AppConfig, nil
}

// Validate checks that the configuration is complete enough to build the
// data module. Missing required keys are construction-time hard failures.
func (c *Config) Validate() error {
	if c.Loader.BatchSize <= 0 {
		return fmt.Errorf("loader.batchSize must be a positive integer, got %d", c.Loader.BatchSize)
	}
	if !c.Loader.EvalOnly {
		if c.Data.TrainPath == "" {
			return fmt.Errorf("data.trainPath not found in the dataset configuration")
		}
		if c.Data.ValPath == "" {
			return fmt.Errorf("data.valPath not found in the dataset configuration")
		}
	}
	switch c.Data.Mode {
	case ModePair, ModeConcat:
	default:
		return fmt.Errorf("unknown data.mode %q (want %q or %q)", c.Data.Mode, ModePair, ModeConcat)
	}
	switch c.Data.Ordering {
	case OrderingNatural, OrderingShuffle, OrderingBySize:
	default:
		return fmt.Errorf("unknown data.ordering %q", c.Data.Ordering)
	}
	if c.Data.MaxLength <= 0 {
		return fmt.Errorf("data.maxLength must be positive, got %d", c.Data.MaxLength)
	}
	if c.Loader.NumWorkers < 0 {
		return fmt.Errorf("loader.numWorkers must not be negative, got %d", c.Loader.NumWorkers)
	}
	return nil
}
