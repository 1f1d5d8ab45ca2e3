package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	GeminiAPIKey string
	GeminiModel  string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	CatalogPath string
	RecipesPath string
	PersonaPath string
}

func LoadConfig() Config {
	// A missing .env file is fine, the system environment wins either way.
	_ = godotenv.Load()

	return Config{
		Addr:           getEnv("ADDR", ":8000"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", ""),
		DBName:         getEnv("DB_NAME", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "amazie-chat"),
		CatalogPath:    getEnv("CATALOG_PATH", "amazie/catalog/data/products.json"),
		RecipesPath:    getEnv("RECIPES_PATH", "amazie/recipes/data/recipes.yaml"),
		PersonaPath:    getEnv("PERSONA_PATH", "amazie/services/assistant/amazie.properties"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
