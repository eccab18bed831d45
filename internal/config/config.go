package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	TokenSecret        string
	TokenTTL           time.Duration
	SessionIdleTimeout time.Duration
	MaxSessions        int
	IPMismatchPolicy   string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	PruneAfter  time.Duration
}

type PolicyConfig struct {
	WeekendStartHour  int
	WeekendEndHour    int
	CheckInStartHour  int
	CheckInEndHour    int
	CheckOutStartHour int
	CheckOutEndHour   int
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	RateLimit        RateLimitConfig
	Policy           PolicyConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ATTENDLY")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.tokenttl", "168h") // 7 days
	v.SetDefault("security.sessionidletimeout", "24h")
	v.SetDefault("security.maxsessions", 3)
	v.SetDefault("security.ipmismatchpolicy", "log")

	v.SetDefault("ratelimit.maxrequests", 100)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.pruneafter", "1h")

	v.SetDefault("policy.weekendstarthour", 8)
	v.SetDefault("policy.weekendendhour", 19)
	v.SetDefault("policy.checkinstarthour", 6)
	v.SetDefault("policy.checkinendhour", 10)
	v.SetDefault("policy.checkoutstarthour", 17)
	v.SetDefault("policy.checkoutendhour", 24)
}
