package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port               string `mapstructure:"PORT"`
	DatabasePath       string `mapstructure:"DATABASE_PATH"`
	NewsAPI            string `mapstructure:"NEWS_API"`
	FeedRefreshMinutes int    `mapstructure:"FEED_REFRESH_MINUTES"`
	Debug              bool   `mapstructure:"DEBUG"`
}

var loaded *Config

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	if loaded == nil {
		loaded = load()
	}
	return loaded
}

func load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "pressroom.db")
	viper.SetDefault("NEWS_API", "")
	viper.SetDefault("FEED_REFRESH_MINUTES", 30)
	viper.SetDefault("DEBUG", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
