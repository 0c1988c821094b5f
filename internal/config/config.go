package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Rewards  RewardConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret           string
	DefaultState        string
	DefaultElectionYear int
}

// RewardConfig holds the coin values granted or deducted by prediction
// actions. These are policy defaults, not protocol constants, so they can
// be overridden per deployment.
type RewardConfig struct {
	CreatePrediction int
	UpdatePrediction int
	LockPrediction   int
	DeletePrediction int
	LockedKeep       int
	SubmitBonus      int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "election_predictions"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:           getEnv("JWT_SECRET", ""),
			DefaultState:        getEnv("DEFAULT_STATE", "Bihar"),
			DefaultElectionYear: getEnvInt("DEFAULT_ELECTION_YEAR", time.Now().Year()),
		},
		Rewards: RewardConfig{
			CreatePrediction: getEnvInt("REWARD_CREATE", 5),
			UpdatePrediction: getEnvInt("REWARD_UPDATE", 3),
			LockPrediction:   getEnvInt("REWARD_LOCK", 10),
			DeletePrediction: getEnvInt("REWARD_DELETE_PENALTY", 2),
			LockedKeep:       getEnvInt("REWARD_LOCKED_KEEP", 15),
			SubmitBonus:      getEnvInt("REWARD_SUBMIT_BONUS", 50),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
