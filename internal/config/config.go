package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	Inventory *InventoryConfig `mapstructure:"inventory"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type InventoryConfig struct {
	ReservationTTLSeconds int `mapstructure:"reservation_ttl_seconds"`
	LowStockThreshold     int `mapstructure:"low_stock_threshold"`
}

// Load reads configuration from the given file. Environment variables
// override file values, e.g. POSTGRES_PASSWORD overrides postgres.password.
func Load(path string) (*AppConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("vp.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := vp.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("vp.Unmarshal -> %w", err)
	}

	return &conf, nil
}
