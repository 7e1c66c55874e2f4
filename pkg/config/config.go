package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings
type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	UploadDir               string
	FirebaseCredentialsPath string
}

// Load reads the .env file if present and builds the config from the
// environment with sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "5000"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:           getEnv("MONGODB_DB", "socialx"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		UploadDir:               getEnv("UPLOAD_DIR", "uploads"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
