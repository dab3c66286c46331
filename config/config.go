package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the property AI service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port string

	// OpenAI configuration, one model knob per capability
	OpenAIAPIKey        string
	ChatbotModel        string
	RecommendationModel string
	PredictionModel     string
	AnalysisModel       string
	VisionModel         string
	RequestTimeout      time.Duration

	// Google Translate configuration
	TranslateAPIKey string

	// Provider selection ("openai" or "stub" for local runs without keys)
	AIProvider string

	// RabbitMQ configuration (optional; interaction events are skipped
	// when the URL is empty)
	AMQPURL               string
	AMQPExchange          string
	InteractionRoutingKey string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables, optionally from a
// .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "realestate"),

		// Server defaults
		Port: getEnv("PORT", "8080"),

		// OpenAI defaults
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		ChatbotModel:        getEnv("OPENAI_CHATBOT_MODEL", "gpt-4"),
		RecommendationModel: getEnv("OPENAI_RECOMMENDATION_MODEL", "gpt-4"),
		PredictionModel:     getEnv("OPENAI_PREDICTION_MODEL", "gpt-4"),
		AnalysisModel:       getEnv("OPENAI_ANALYSIS_MODEL", "gpt-4"),
		VisionModel:         getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
		RequestTimeout:      getDurationEnv("AI_REQUEST_TIMEOUT", 60*time.Second),

		// Google Translate defaults
		TranslateAPIKey: getEnv("GOOGLE_TRANSLATE_API_KEY", ""),

		AIProvider: getEnv("AI_PROVIDER", "openai"),

		// RabbitMQ defaults
		AMQPURL:               getEnv("AMQP_URL", ""),
		AMQPExchange:          getEnv("AMQP_EXCHANGE", "property-ai"),
		InteractionRoutingKey: getEnv("AMQP_INTERACTION_ROUTING_KEY", "ai.interaction"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
