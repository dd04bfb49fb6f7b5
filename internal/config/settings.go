package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Settings holds the process configuration, loaded once at startup and
// injected everywhere it is needed.
type Settings struct {
	ServerPort  string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	Timezone   string

	JWTSecret   string
	LogLevel    string
	FrontendURL string
}

// Load reads .env (if present) and the environment into a Settings value.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return &Settings{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "develop"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "opticapa"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		Timezone:   getEnv("DB_TIMEZONE", "Europe/Paris"),

		JWTSecret:   getEnv("JWT_SECRET", "supersecret"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:4200"),
	}
}

// DSN builds the Postgres data source name.
func (s *Settings) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort, s.DBSSLMode, s.Timezone,
	)
}

// AllowedOrigins lists the origins the CORS wrapper accepts.
func (s *Settings) AllowedOrigins() []string {
	return []string{s.FrontendURL, "http://localhost:4200"}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
