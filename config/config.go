package config

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning
// the details of game pacing and serving.
var (
	ListenAddr  = getEnvString("SNAKE_LISTEN", ":3005")
	BoardWidth  = getEnvInt("SNAKE_WIDTH", 32)
	BoardHeight = getEnvInt("SNAKE_HEIGHT", 24)
	// TickRate is how many simulation steps per second a live round runs.
	TickRate = rate.Limit(getEnvInt("SNAKE_TICK_RPS", 8))
	// StartPeriod/MinPeriod/MaxPeriod tune the acceleration ramp.
	StartPeriod = getEnvInt("SNAKE_RAMP_START", 3)
	MinPeriod   = getEnvInt("SNAKE_RAMP_MIN", 1)
	MaxPeriod   = getEnvInt("SNAKE_RAMP_MAX", 6)
	// StoreBackend selects the replay store: inmem, file or redis.
	StoreBackend = getEnvString("SNAKE_STORE", "inmem")
	ReplayDir    = getEnvString("SNAKE_REPLAY_DIR", "")
	RedisURL     = getEnvString("SNAKE_REDIS_URL", "redis://localhost:6379")
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

func getEnvString(varName, defaults string) string {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	return val
}
