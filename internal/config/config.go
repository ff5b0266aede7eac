package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
	Share      ShareConfig      `mapstructure:"share"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	Output     string `mapstructure:"output"` // stdout or file
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ProcessingConfig struct {
	// BaseDelay is the simulated processing time for the plain enhance
	// effect; the other effects scale it up.
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

type SweepConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Spec is a cron expression for the maintenance pass.
	Spec string `mapstructure:"spec"`
	// StuckAfter is how long a row may sit in processing before the sweep
	// flags it as error. Must stay well above any simulated delay.
	StuckAfter time.Duration `mapstructure:"stuck_after"`
}

type ShareConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func Load() *Config {
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("no config file found, using defaults")
		} else {
			log.Fatalf("read config: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("decode config: %v", err)
	}

	if err := validateConfig(&config); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	return &config
}

func setDefaults() {
	viper.SetEnvPrefix("GLOWUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "data/logs/glowup.log")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)

	viper.SetDefault("jwt.secret", "dev-change-me")
	viper.SetDefault("jwt.access_ttl", "15m")
	viper.SetDefault("jwt.refresh_ttl", "336h")

	viper.SetDefault("database.path", "data/glowup.db")

	viper.SetDefault("processing.base_delay", "5s")

	viper.SetDefault("sweep.enabled", true)
	viper.SetDefault("sweep.spec", "@every 1m")
	viper.SetDefault("sweep.stuck_after", "15m")

	viper.SetDefault("share.cache_ttl", "30s")
}

func validateConfig(config *Config) error {
	if config.Server.Addr == "" {
		return fmt.Errorf("server addr not set")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("jwt secret not set")
	}
	if config.Database.Path == "" {
		return fmt.Errorf("database path not set")
	}
	if config.Processing.BaseDelay <= 0 {
		return fmt.Errorf("processing base_delay must be positive")
	}
	if config.Sweep.Enabled && config.Sweep.StuckAfter <= config.Processing.BaseDelay*2 {
		return fmt.Errorf("sweep stuck_after must exceed the longest simulated delay")
	}
	return nil
}
