package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 服务配置，全部来自环境变量
type Config struct {
	Port      string
	MysqlDSN  string
	JWTSecret string
	AuthGrace time.Duration // 未认证连接的宽限时间
}

func Load() *Config {
	// .env 不存在时忽略，直接读环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	graceMs := 5000
	if v := os.Getenv("AUTH_GRACE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			graceMs = n
		}
	}

	return &Config{
		Port:      getEnv("PORT", "8082"),
		MysqlDSN:  getEnv("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/chat_gateway?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		AuthGrace: time.Duration(graceMs) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
