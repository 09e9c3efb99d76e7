package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host        string `mapstructure:"host"`
		Port        string `mapstructure:"port"`
		User        string `mapstructure:"user"`
		Password    string `mapstructure:"password"`
		Name        string `mapstructure:"name"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		PrivateKeyPath        string `mapstructure:"private_key_path"`
		PublicKeyPath         string `mapstructure:"public_key_path"`
		AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int    `mapstructure:"refresh_token_ttl_days"`
	} `mapstructure:"jwt"`
	Cookies CookiesConfig `mapstructure:"cookies"`
}

// CookiesConfig holds the attributes used for both auth cookies. The same
// attributes must be used when setting and when clearing a cookie, otherwise
// browsers silently refuse to remove it.
type CookiesConfig struct {
	AccessTokenName      string `mapstructure:"access_token_name"`
	RefreshTokenName     string `mapstructure:"refresh_token_name"`
	HTTPOnly             bool   `mapstructure:"http_only"`
	Secure               bool   `mapstructure:"secure"`
	MaxAge               int    `mapstructure:"max_age"`
	SameSiteAccessToken  string `mapstructure:"same_site_access_token"`
	SameSiteRefreshToken string `mapstructure:"same_site_refresh_token"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
