// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the complete server configuration. Values come from environment
// variables with the defaults below; the CLI may override the listen port.
type Config struct {
	Port int    `env:"PORT" envDefault:"3001"`
	Name string `env:"SERVER_NAME" envDefault:"common-lore"`

	RoomCodeLength    int           `env:"ROOM_CODE_LENGTH" envDefault:"8"`
	MaxPlayersPerRoom int           `env:"MAX_PLAYERS_PER_ROOM" envDefault:"6"`
	MinPlayersToStart int           `env:"MIN_PLAYERS_TO_START" envDefault:"2"`
	CardsPerPlayer    int           `env:"CARDS_PER_PLAYER" envDefault:"5"`
	RoomExpiration    time.Duration `env:"ROOM_EXPIRATION" envDefault:"24h"`
	CleanupInterval   time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`

	DefaultTimerSeconds int `env:"DEFAULT_TIMER_SECONDS" envDefault:"120"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
