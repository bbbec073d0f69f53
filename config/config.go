package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	PineconeAPIKey    string
	PineconeIndexName string
	Port              string
}

// Load reads configuration from the environment, preferring a local
// .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:       os.Getenv("DB_URL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName: getEnvOrDefault("PINECONE_INDEX_NAME", "courseta-materials"),
		Port:              getEnvOrDefault("PORT", "8080"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
