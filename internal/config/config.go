package config

import "os"

type Config struct {
	HTTPPort  string
	DBPath    string
	RedisAddr string
	JWTSecret string
}

func Load() *Config {
	return &Config{
		HTTPPort:  getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "survey.sqlite"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
