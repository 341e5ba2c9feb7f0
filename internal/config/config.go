package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	Slack            SlackConfig             `env:",prefix=SLACK_"`
	Layant           LayantConfig            `env:",prefix=LAYANT_"`
	Auth             AuthConfig              `env:",prefix=AUTH_"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Pricing          PricingConfig           `env:",prefix=PRICING_"`
	AutoRenew        AutoRenewConfig         `env:",prefix=AUTORENEW_"`
}

type SlackConfig struct {
	BotToken  string `env:"BOT_TOKEN,required"`
	AppToken  string `env:"APP_TOKEN,required"`
	RateLimit struct {
		Burst int     `env:"BURST,default=5"`
		RPS   float64 `env:"RPS,default=1.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

type LayantConfig struct {
	BaseURL   string        `env:"BASE_URL,required"`
	Lang      string        `env:"LANG,default=ar"`
	Timeout   time.Duration `env:"TIMEOUT,default=30s"`
	RateLimit struct {
		Burst int     `env:"BURST,default=5"`
		RPS   float64 `env:"RPS,default=10.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

// AuthConfig selects where the upstream credential lives. Store is
// either "file" or "sqlite".
type AuthConfig struct {
	Username  string `env:"USERNAME,required"`
	Password  string `env:"PASSWORD,required"`
	Store     string `env:"STORE,default=file"`
	TokenPath string `env:"TOKEN_PATH,default=./data/token.txt"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/wecom.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}

// PricingConfig points at an optional YAML overlay; the built-in
// defaults apply when Path is empty.
type PricingConfig struct {
	Path string `env:"PATH"`
}

type AutoRenewConfig struct {
	Enabled  bool     `env:"ENABLED,default=false"`
	Numbers  []string `env:"NUMBERS"`
	Schedule string   `env:"SCHEDULE,default=0 9 * * *"`
}
