package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RedisAddr  string
	ServerAddr string
	JWTSecret  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AppURL       string
	FromEmail    string

	MediaDir        string
	AssemblyAIKey   string
	TranscriptionOn bool
}

func LoadConfig() *Config {
	godotenv.Load()
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASS", "postgres"),
		DBName:     getEnv("DB_NAME", "harmonize"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		ServerAddr: getEnv("PORT", ":8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		SMTPHost:     getEnv("SMTP_HOST", "0.0.0.0"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		FromEmail:    getEnv("FROM_EMAIL", "no-reply@harmonize.app"),

		MediaDir:        getEnv("MEDIA_DIR", "./media"),
		AssemblyAIKey:   os.Getenv("ASSEMBLYAI_API_KEY"),
		TranscriptionOn: os.Getenv("ASSEMBLYAI_API_KEY") != "",
	}
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
