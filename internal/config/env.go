package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr     string
	GinMode     string
	LogLevel    string
	CORSOrigins []string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string
	JWTTTL    time.Duration

	SweepSpec string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	ttl := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("JWT_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	sweepSpec := strings.TrimSpace(os.Getenv("SWEEP_CRON"))
	if sweepSpec == "" {
		sweepSpec = "*/5 * * * *"
	}

	return Env{
		AppAddr:     appAddr,
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		CORSOrigins: origins,
		DBUser:      envOr("DB_USER", "root"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:      envOr("DB_NAME", "billettigue"),
		JWTSecret:   envOr("JWT_SECRET", "super-secret-key-change-me"),
		JWTTTL:      ttl,
		SweepSpec:   sweepSpec,
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
