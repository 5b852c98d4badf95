package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	SchemaPath  string
	Dialect     string
	DatabaseURL string
	OutputPath  string
}

// LoadConfig loads configuration from config files, env vars and .env files
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".sqlspine")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "sqlspine"))

	viper.SetEnvPrefix("SQLSPINE")
	viper.AutomaticEnv()

	viper.SetDefault("schema_path", "schema.yaml")
	viper.SetDefault("dialect", "generic")
	viper.SetDefault("output_path", ".")

	// A missing config file is fine; defaults and env take over.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		SchemaPath:  viper.GetString("schema_path"),
		Dialect:     viper.GetString("dialect"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		OutputPath:  viper.GetString("output_path"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = viper.GetString("database_url")
	}

	return cfg, nil
}

// SaveConfig writes the configuration to $HOME/.config/sqlspine
func SaveConfig(cfg *Config) error {
	viper.Set("schema_path", cfg.SchemaPath)
	viper.Set("dialect", cfg.Dialect)
	viper.Set("output_path", cfg.OutputPath)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "sqlspine")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	return viper.WriteConfigAs(filepath.Join(configPath, ".sqlspine.yaml"))
}
