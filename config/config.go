package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Session SessionConfig
	Sheets  SheetsConfig
	Line    LineConfig
	SMS     SMSConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// SheetsConfig holds the spreadsheet webhook endpoint.
// An empty URL disables the integration.
type SheetsConfig struct {
	WebhookURL string
}

// LineConfig holds the LINE platform application id used for profile
// pre-fill. An empty id disables the integration.
type LineConfig struct {
	AppID string
}

type SMSConfig struct {
	SimulationDelay time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env file is not an error; process env still applies.
	_ = viper.ReadInConfig()

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}

	smsDelay, err := time.ParseDuration(viper.GetString("SMS_SIMULATION_DELAY"))
	if err != nil {
		smsDelay = 1500 * time.Millisecond
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SESSION_SECRET"),
			TTL:    sessionTTL,
		},
		Sheets: SheetsConfig{
			WebhookURL: viper.GetString("SHEETS_WEBHOOK_URL"),
		},
		Line: LineConfig{
			AppID: viper.GetString("LINE_APP_ID"),
		},
		SMS: SMSConfig{
			SimulationDelay: smsDelay,
		},
	}

	return config, nil
}
