package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
	Endpoint   string `mapstructure:"endpoint"`
}

type OutputConfig struct {
	Destination  string             `mapstructure:"destination"` // console, json, csv, parquet, kafka
	Path         string             `mapstructure:"path"`
	Folder       string             `mapstructure:"folder"`
	Storage      string             `mapstructure:"storage"` // local or cloud, parquet only
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
}

type KafkaConfig struct {
	BrokerList   string        `mapstructure:"broker_list"`
	TopicPrefix  string        `mapstructure:"topic_prefix"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // network write and broker ack wait
}

type StateConfig struct {
	Driver      string `mapstructure:"driver"` // file, postgres, redis
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`
	Key         string `mapstructure:"key"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

type SweepConfig struct {
	CapacityMin    int   `mapstructure:"capacity_min"`
	CapacityMax    int   `mapstructure:"capacity_max"`
	CapacityStep   int   `mapstructure:"capacity_step"`
	SyntheticCount int   `mapstructure:"synthetic_count"`
	Seed           int64 `mapstructure:"seed"`
	ShowProgress   bool  `mapstructure:"show_progress"`
}

type Config struct {
	ScenarioID string       `mapstructure:"scenario_id"`
	Settings   Settings     `mapstructure:"settings"`
	Output     OutputConfig `mapstructure:"output"`
	Kafka      KafkaConfig  `mapstructure:"kafka"`
	State      StateConfig  `mapstructure:"state"`
	Server     ServerConfig `mapstructure:"server"`
	Sweep      SweepConfig  `mapstructure:"sweep"`
	LogLevel   string       `mapstructure:"log_level"`
}

// SetDefaults registers every default on the global viper instance.
func SetDefaults() {
	viper.SetDefault("scenario_id", "canal_cafe")

	viper.SetDefault("settings.currency", string(CurrencyEUR))
	viper.SetDefault("settings.capacity_seats", 40)
	viper.SetDefault("settings.avg_spend_per_seat", 42.0)
	viper.SetDefault("settings.open_hour", 12)
	viper.SetDefault("settings.close_hour", 23)
	viper.SetDefault("settings.target_date", time.Now().Format(time.DateOnly))

	viper.SetDefault("output.destination", "console")
	viper.SetDefault("output.path", "output")
	viper.SetDefault("output.folder", "seatyield")
	viper.SetDefault("output.storage", "local")
	viper.SetDefault("output.cloud_storage.provider", "s3")
	viper.SetDefault("output.cloud_storage.region", "eu-west-1")
	viper.SetDefault("output.cloud_storage.bucket_name", "")
	viper.SetDefault("output.cloud_storage.endpoint", "")

	viper.SetDefault("kafka.broker_list", "localhost:9092")
	viper.SetDefault("kafka.topic_prefix", "seatyield")
	viper.SetDefault("kafka.retry_max", 5)
	viper.SetDefault("kafka.retry_backoff", 100*time.Millisecond)
	viper.SetDefault("kafka.dial_timeout", 30*time.Second)
	viper.SetDefault("kafka.write_timeout", 30*time.Second)

	viper.SetDefault("state.driver", "file")
	viper.SetDefault("state.path", ".seatyield")
	viper.SetDefault("state.database_url", "")
	viper.SetDefault("state.redis_url", "")
	viper.SetDefault("state.key", "seat_yield_v1")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("sweep.capacity_min", 20)
	viper.SetDefault("sweep.capacity_max", 120)
	viper.SetDefault("sweep.capacity_step", 20)
	viper.SetDefault("sweep.synthetic_count", 0)
	viper.SetDefault("sweep.seed", 42)
	viper.SetDefault("sweep.show_progress", true)

	viper.SetDefault("log_level", "info")
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is only an error when cfgFile names it explicitly.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("examples")
		viper.SetConfigName("seatyield")
	}

	viper.SetEnvPrefix("seatyield")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
