package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DBUrl                 string
	JWTSecret             string
	ExerciseDBPath        string
	MealAPIBase           string
	MealAPITimeout        time.Duration
	MealAPIStatusInterval time.Duration
	AppEnv                string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		DBUrl:                 getEnv("DB_URL", ""),
		JWTSecret:             jwtSecret,
		ExerciseDBPath:        getEnv("EXERCISE_DB_PATH", "exercises.db"),
		MealAPIBase:           strings.TrimRight(getEnv("MEAL_API_BASE", ""), "/"),
		MealAPITimeout:        getEnvSeconds("MEAL_API_TIMEOUT_SECONDS", 90*time.Second),
		MealAPIStatusInterval: getEnvSeconds("MEAL_API_STATUS_INTERVAL", 5*time.Second),
		AppEnv:                normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 1 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
