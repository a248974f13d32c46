package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AnnouncementQueueName string

	JoinCodeLength   int
	InviteCodeLength int
	DefaultTeamSize  int

	AuthRateLimitPerMinute int
	AuthRateLimitBurst     int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:               getEnv("API_PORT", "8080"),
		JWTKey:                []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:                time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "user"),
		DBPassword:            getEnv("DB_PASSWORD", "password"),
		DBName:                getEnv("DB_NAME", "hackportal_db"),
		DBSslMode:             getEnv("DB_SSLMODE", "disable"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		AnnouncementQueueName: getEnv("ANNOUNCEMENT_QUEUE_NAME", "announcement_fanout_queue"),

		JoinCodeLength:   getEnvAsInt("TEAM_JOIN_CODE_LENGTH", 8),
		InviteCodeLength: getEnvAsInt("INVITE_CODE_LENGTH", 12),
		DefaultTeamSize:  getEnvAsInt("DEFAULT_TEAM_MAX_SIZE", 4),

		AuthRateLimitPerMinute: getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
		AuthRateLimitBurst:     getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
