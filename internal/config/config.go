// Package config loads server configuration from environment variables via
// viper, the way the rest of this codebase's service family loads theirs
// from config files: a single struct populated once at startup and handed
// to the components that need it.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable named in the external interface: which tile
// sets to deal, how many seats a room needs, how long a claim window runs,
// and where the gateway and admin surfaces listen. MaxPlayersPerGame is
// loaded but not read anywhere: the room store and engine fix a room at
// four seats.
type Config struct {
	IncludeBonus     bool   `mapstructure:"include_bonus"`
	MaxPlayersPerGame int   `mapstructure:"max_players_per_game"`
	ClaimTimeoutMs   int    `mapstructure:"claim_timeout_ms"`
	ClaimGraceMs     int    `mapstructure:"claim_grace_ms"`
	ClaimWatchdog    bool   `mapstructure:"claim_watchdog"`
	LogLevel         string `mapstructure:"log_level"`
	WsAddr           string `mapstructure:"ws_addr"`
	AdminAddr        string `mapstructure:"admin_addr"`
	RoomIDLength     int    `mapstructure:"room_id_length"`
}

// Load reads unprefixed environment variables (INCLUDE_BONUS,
// MAX_PLAYERS_PER_GAME, CLAIM_TIMEOUT_MS, LOG_LEVEL, ...) into a Config,
// applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("include_bonus", false)
	v.SetDefault("max_players_per_game", 4)
	v.SetDefault("claim_timeout_ms", 5000)
	v.SetDefault("claim_grace_ms", 2000)
	v.SetDefault("claim_watchdog", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("ws_addr", ":8080")
	v.SetDefault("admin_addr", ":8081")
	v.SetDefault("room_id_length", 8)

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
