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

	// AuthoringKeyHash is the bcrypt hash of the key exchanged for an
	// authoring token. Empty disables the token endpoint entirely.
	AuthoringKeyHash string

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

	// Remote execution provider (JDoodle-compatible credit-based API).
	ExecutorURL          string
	ExecutorClientID     string
	ExecutorClientSecret string
	ExecutorLanguage     string
	ExecutorVersionIndex string

	// Badge minting.
	ChainRPCURL      string
	ChainID          int64
	ContractAddress  string
	MinterPrivateKey string
	BadgeURIBase     string

	// Sessions outlive the contest limit by this margin so an expired
	// session can still be finalized.
	SessionRetention time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		JWTKey:           []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:           time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		AuthoringKeyHash: getEnv("AUTHORING_KEY_HASH", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "cp_arena_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ExecutorURL:          getEnv("EXECUTOR_URL", "https://api.jdoodle.com/v1/execute"),
		ExecutorClientID:     getEnv("EXECUTOR_CLIENT_ID", ""),
		ExecutorClientSecret: getEnv("EXECUTOR_CLIENT_SECRET", ""),
		ExecutorLanguage:     getEnv("EXECUTOR_LANGUAGE", "nodejs"),
		ExecutorVersionIndex: getEnv("EXECUTOR_VERSION_INDEX", "4"),

		ChainRPCURL:      getEnv("CHAIN_RPC_URL", ""),
		ChainID:          int64(getEnvAsInt("CHAIN_ID", 11155111)), // Sepolia
		ContractAddress:  getEnv("BADGE_CONTRACT_ADDRESS", ""),
		MinterPrivateKey: getEnv("MINTER_PRIVATE_KEY", ""),
		BadgeURIBase:     getEnv("BADGE_URI_BASE", "https://api.dicebear.com/7.x/identicon/svg"),

		SessionRetention: time.Duration(getEnvAsInt("SESSION_RETENTION_HOURS", 48)) * time.Hour,
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg
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
