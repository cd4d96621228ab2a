// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. CLI flags override individual fields.
type Config struct {
	Years           int
	QuartersPerYear int
	Seed            int64

	OutputDir string
	DBPath    string
	DataDir   string
	Countries []string

	AllowGeneric        bool
	DiversionElasticity float64
	MaxDiversion        float64

	LLM   LLMConfig
	Kafka KafkaConfig

	LogLevel slog.Level
}

// LLMConfig configures the optional policy advisor.
type LLMConfig struct {
	APIKey            string
	Model             string
	MaxTokens         int
	RequestsPerMinute int
}

// KafkaConfig configures the optional step feed. An empty Broker disables it.
type KafkaConfig struct {
	Broker string
	Topic  string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	outputDir := getEnv("OUTPUT_DIR", "simulation_results")
	return Config{
		Years:               getEnvInt("SIMULATION_YEARS", 5),
		QuartersPerYear:     getEnvInt("SIMULATION_STEPS_PER_YEAR", 4),
		Seed:                getEnvInt64("RANDOM_SEED", 42),
		OutputDir:           outputDir,
		DBPath:              getEnv("DB_PATH", filepath.Join(outputDir, "tradewar.db")),
		DataDir:             getEnv("DATA_DIR", ""),
		Countries:           getEnvList("COUNTRIES", []string{"US", "China", "Indonesia"}),
		AllowGeneric:        getEnvBool("ALLOW_GENERIC_AGENTS", false),
		DiversionElasticity: getEnvFloat("TRADE_DIVERSION_ELASTICITY", 1.5),
		MaxDiversion:        getEnvFloat("TRADE_DIVERSION_MAX", 0.5),
		LLM: LLMConfig{
			APIKey:            getEnv("ANTHROPIC_API_KEY", ""),
			Model:             getEnv("LLM_MODEL", ""),
			MaxTokens:         getEnvInt("LLM_MAX_TOKENS", 1024),
			RequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 30),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TOPIC", "tradewar.steps"),
		},
		LogLevel: ParseLevel(getEnv("LOG_LEVEL", "INFO")),
	}
}

// ParseLevel maps a level name to a slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
