package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Version string      `env:"APP_VERSION" envDefault:"local"`
		Env     Environment `env:"APP_ENV" envDefault:"local"`
		// Таймзона бизнеса, все вычисления календаря идут в ней,
		// таймзона сервера нигде не используется
		Timezone string `env:"APP_TIMEZONE" envDefault:"America/Los_Angeles"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	// Удаленное хранилище событий (непрозрачный HTTP API)
	EventStore struct {
		URL      string `env:"EVENT_STORE_URL"`
		Username string `env:"EVENT_STORE_USERNAME"`
		Password string `env:"EVENT_STORE_PASSWORD"`
	}

	Auth struct {
		Username string `env:"AUTH_USERNAME" envDefault:"booking_calendar"`
		Password string `env:"AUTH_PASSWORD" envDefault:"booking_calendar"`
	}

	// Фиксированное окно для диалога бронирования
	Booking struct {
		WindowStartHour float64 `env:"BOOKING_WINDOW_START_HOUR" envDefault:"10"`
		WindowEndHour   float64 `env:"BOOKING_WINDOW_END_HOUR" envDefault:"18"`
		SlotStepHours   float64 `env:"BOOKING_SLOT_STEP_HOURS" envDefault:"2"`
	}

	// Геометрия недельной сетки
	Layout struct {
		PixelsPerHour    int `env:"LAYOUT_PIXELS_PER_HOUR" envDefault:"48"`
		MinVisualMinutes int `env:"LAYOUT_MIN_VISUAL_MINUTES" envDefault:"30"`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"calendar.events"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CACHE_SIZE" envDefault:"256"`
	}

	Feed struct {
		WeeksAhead int `env:"FEED_WEEKS_AHEAD" envDefault:"8"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	return cfg, nil
}

// Location возвращает таймзону бизнеса, она явно передается во все вычисления
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
