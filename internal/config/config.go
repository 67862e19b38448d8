package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      API      `mapstructure:"api"`
	Telegram Telegram `mapstructure:"telegram"`
	RabbitMQ RabbitMQ `mapstructure:"rabbitmq"`
	Database Database `mapstructure:"database"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Telegram struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	SessionDir      string `mapstructure:"session_dir"`
	// CodeURL, when set, is POSTed to for login codes instead of prompting
	// on stdin.
	CodeURL string `mapstructure:"code_url"`
	// ResponseTimeout bounds the wait for an inbound reply after a send.
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
	// PollInterval is how often the reply slot is checked while waiting.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// RequestTimeout is the outer ceiling on a whole send-and-wait call.
	// Must exceed ResponseTimeout so the two timeouts cannot race.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// GateScope is "account" (one lock per phone) or "global".
	GateScope string `mapstructure:"gate_scope"`
	// FilterSender accepts only replies from the resolved destination.
	// false restores the legacy any-inbound-message behaviour.
	FilterSender bool `mapstructure:"filter_sender"`
}

type RabbitMQ struct {
	URL string `mapstructure:"url"`
}

type Database struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

const (
	GateScopeAccount = "account"
	GateScopeGlobal  = "global"
)

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetDefault("api.port", ":5000")
	viper.SetDefault("telegram.credentials_file", "config/telegram_credentials.json")
	viper.SetDefault("telegram.session_dir", "sessions")
	viper.SetDefault("telegram.response_timeout", 10*time.Second)
	viper.SetDefault("telegram.poll_interval", time.Second)
	viper.SetDefault("telegram.request_timeout", 40*time.Second)
	viper.SetDefault("telegram.gate_scope", GateScopeAccount)
	viper.SetDefault("telegram.filter_sender", true)

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Telegram.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (t Telegram) Validate() error {
	if t.ResponseTimeout <= 0 {
		return fmt.Errorf("telegram.response_timeout must be positive")
	}

	if t.PollInterval <= 0 {
		return fmt.Errorf("telegram.poll_interval must be positive")
	}

	if t.RequestTimeout <= t.ResponseTimeout {
		return fmt.Errorf("telegram.request_timeout (%s) must exceed telegram.response_timeout (%s)",
			t.RequestTimeout, t.ResponseTimeout)
	}

	if t.GateScope != GateScopeAccount && t.GateScope != GateScopeGlobal {
		return fmt.Errorf("telegram.gate_scope must be %q or %q", GateScopeAccount, GateScopeGlobal)
	}

	return nil
}
