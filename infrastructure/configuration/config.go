package configuration

import (
	"fmt"
	"os"

	"ytcollector/infrastructure/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `json:"app" mapstructure:"app"`
	Logger    Logger    `json:"logger" mapstructure:"logger"`
	YouTube   YouTube   `json:"youtube" mapstructure:"youtube"`
	Database  Database  `json:"database" mapstructure:"database"`
	Collector Collector `json:"collector" mapstructure:"collector"`
	Export    Export    `json:"export" mapstructure:"export"`
}

type App struct {
	Port int `json:"port" mapstructure:"port"`
	// SecretKey enables bearer-token auth on the HTTP API when set.
	SecretKey    string   `json:"secretKey" mapstructure:"secretKey"`
	AllowOrigins []string `json:"allowOrigins" mapstructure:"allowOrigins"`
}

type Logger struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

type YouTube struct {
	APIKey       string `json:"apiKey" mapstructure:"apiKey"`
	AccessToken  string `json:"accessToken" mapstructure:"accessToken"`
	RefreshToken string `json:"refreshToken" mapstructure:"refreshToken"`
	ClientID     string `json:"clientId" mapstructure:"clientId"`
	ClientSecret string `json:"clientSecret" mapstructure:"clientSecret"`
	BaseURL      string `json:"baseURL" mapstructure:"baseURL"`
	PageSize     int64  `json:"pageSize" mapstructure:"pageSize"`
}

type Database struct {
	// Driver is "sqlite" or "postgres".
	Driver string `json:"driver" mapstructure:"driver"`
	// DSN is a file path for sqlite and a connection string for postgres.
	DSN string `json:"dsn" mapstructure:"dsn"`
}

type Collector struct {
	DefaultQuota int64  `json:"defaultQuota" mapstructure:"defaultQuota"`
	URLsFile     string `json:"urlsFile" mapstructure:"urlsFile"`
}

type Export struct {
	Dir       string `json:"dir" mapstructure:"dir"`
	Style     string `json:"style" mapstructure:"style"`
	Delimiter string `json:"delimiter" mapstructure:"delimiter"`
}

var C Config

// envBindings maps config keys to the environment variables that override
// them, first match wins.
var envBindings = map[string][]string{
	"youtube.apiKey":       {"YOUTUBE_API_KEY"},
	"youtube.accessToken":  {"YOUTUBE_ACCESS_TOKEN"},
	"youtube.refreshToken": {"YOUTUBE_REFRESH_TOKEN"},
	"youtube.clientId":     {"YOUTUBE_CLIENT_ID"},
	"youtube.clientSecret": {"YOUTUBE_CLIENT_SECRET"},
	"database.driver":      {"DB_DRIVER"},
	"database.dsn":         {"DB_DSN"},
	"app.port":             {"APP_PORT", "PORT"},
	"app.secretKey":        {"SECRET_KEY"},
	"logger.format":        {"LOG_FORMAT"},
	"logger.level":         {"LOG_LEVEL"},
}

func init() {
	LoadConfig()
}

func setDefaults() {
	viper.SetDefault("app.port", 10001)
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("youtube.pageSize", 100)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "ytcollector.db")
	viper.SetDefault("collector.defaultQuota", 10000)
	viper.SetDefault("collector.urlsFile", "urls.txt")
	viper.SetDefault("export.dir", "export")
	viper.SetDefault("export.style", "escape")
	viper.SetDefault("export.delimiter", ",")
}

func LoadConfig() {
	setDefaults()
	for key, envs := range envBindings {
		_ = viper.BindEnv(append([]string{key}, envs...)...)
	}

	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := Refresh(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

// LoadFile merges an explicit config file over what LoadConfig found.
func LoadFile(path string) error {
	viper.SetConfigFile(path)
	if err := viper.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return Refresh()
}

// BindFlags routes command-line flags to config keys, e.g.
// {"db": "database.dsn"}. Unknown flag names are an error.
func BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return Refresh()
}

// Refresh re-decodes C from viper's current state.
func Refresh() error {
	return viper.Unmarshal(&C)
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}
