package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	InputDir  string
	OutputDir string
	DBPath    string
	AliasPath string

	InactiveDays         int
	MinTicketAverage     float64
	AnalysisPeriodMonths int
	DeliveryRadiusKm     int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InputDir:  getEnv("INPUT_DIR", filepath.Join(cwd, "data", "input")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "data", "output")),
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		AliasPath: getEnv("NEIGHBORHOOD_ALIAS_PATH", ""),

		InactiveDays:         getEnvInt("DEFAULT_INACTIVE_DAYS", 30),
		MinTicketAverage:     getEnvFloat("DEFAULT_MIN_TICKET", 50.0),
		AnalysisPeriodMonths: getEnvInt("ANALYSIS_PERIOD_MONTHS", 6),
		DeliveryRadiusKm:     getEnvInt("DELIVERY_RADIUS_KM", 17),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
