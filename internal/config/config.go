package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Topic    string
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	AMQP        AMQPConfig
	MQTT        MQTTConfig
	Geocoder    GeocoderConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		MQTT: MQTTConfig{
			Enabled:  v.GetBool("MQTT_ENABLED"),
			Broker:   v.GetString("MQTT_BROKER"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
			Topic:    v.GetString("MQTT_TOPIC"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   v.GetString("GEOCODER_BASE_URL"),
			UserAgent: v.GetString("GEOCODER_USER_AGENT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.AMQP.Exchange == "" {
		cfg.AMQP.Exchange = "fleet.events"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "fleet-reports"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "fleet/+/location"
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "fleet-reports/1.0"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.MQTT.Enabled && cfg.MQTT.Broker == "" {
		return fmt.Errorf("MQTT_BROKER is required when MQTT_ENABLED is set")
	}
	return nil
}
