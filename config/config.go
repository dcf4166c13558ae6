package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultDatabasePath = "library.db"

type (
	Config struct {
		Database
		Log
	}

	Database struct {
		Path string
	}
	Log struct {
		Verbose bool
	}
)

// LoadEnvFiles reads .env files into the process environment. Variables that
// are already set win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// NewConfig reads LIBRARY_* environment variables on top of the defaults.
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("library")
	v.AutomaticEnv()
	v.SetDefault("db_path", DefaultDatabasePath)
	v.SetDefault("verbose", false)

	return &Config{
		Database: Database{
			Path: v.GetString("DB_PATH"),
		},
		Log: Log{
			Verbose: v.GetBool("VERBOSE"),
		},
	}
}
