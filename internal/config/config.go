package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the flat, env-driven configuration for both binaries.
// Prices, the promo cutoff and the institution lists are configuration
// data on purpose: the business owners adjust them between editions.
type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// organizer/admin surface
	JWTSecret     string
	AccessTTL     time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// notification trigger (the "serverless function" endpoint)
	MailFnURL string
	AnonKey   string

	// outbound mail relay (implicit TLS)
	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	FromEmail string

	// pricing
	StandardPrice      string
	EarlyBirdPrice     string
	InstitutionalPrice string
	EarlyBirdDeadline  time.Time

	// institutional-email policy
	InstitutionName        string
	InstitutionAliases     []string
	InstitutionSubstrings  []string
	InstitutionDomain      string
	InstitutionDepartments []string

	AllowedOrigins []string
	OTLPEndpoint   string
}

func Load() Config {
	// best effort: a missing .env is normal outside local dev
	_ = godotenv.Load()

	from := getEnv("FROM_EMAIL", "")
	user := getEnv("EMAIL_USER", "")

	if from == "" {
		from = user
	}
	if from == "" {
		from = "noreply@yatra2026.com"
	}

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		AccessTTL:     getEnvDuration("ACCESS_TTL", 15*time.Minute),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Organizing Committee"),

		MailFnURL: getEnv("MAILFN_URL", ""),
		AnonKey:   getEnv("ANON_KEY", ""),

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvInt("SMTP_PORT", 465),
		EmailUser: user,
		EmailPass: getEnv("EMAIL_PASS", ""),
		FromEmail: from,

		StandardPrice:      getEnv("STANDARD_PRICE", "₹800"),
		EarlyBirdPrice:     getEnv("EARLY_BIRD_PRICE", "₹750"),
		InstitutionalPrice: getEnv("RIT_STUDENT_PRICE", "₹500"),
		EarlyBirdDeadline:  getEnvTime("EARLY_BIRD_DEADLINE", defaultEarlyBirdDeadline()),

		InstitutionName:        getEnv("INSTITUTION_NAME", "rajalakshmi institute of technology"),
		InstitutionAliases:     getEnvList("INSTITUTION_ALIASES", []string{"rit", "rit chennai"}),
		InstitutionSubstrings:  getEnvList("INSTITUTION_SUBSTRINGS", []string{"rajalakshmi", "technology"}),
		InstitutionDomain:      getEnv("INSTITUTION_DOMAIN", "ritchennai.edu.in"),
		InstitutionDepartments: getEnvList("INSTITUTION_DEPARTMENTS", []string{"csbs", "cse", "aiml", "aids", "bio", "cce", "mech", "vlsi"}),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "reghub")
	pass := getEnv("DB_PASSWORD", "reghub")
	name := getEnv("DB_NAME", "reghub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// Early Bird offer runs until mid-February, festival local time (IST).
func defaultEarlyBirdDeadline() time.Time {
	ist := time.FixedZone("IST", 5*3600+1800)
	return time.Date(2026, time.February, 15, 23, 59, 59, 0, ist)
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}
		return d
	}
	return fallback
}

func getEnvTime(key string, fallback time.Time) time.Time {
	if v := os.Getenv(key); v != "" {
		t, err := time.Parse(time.RFC3339, v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}
		return t
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))

		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}

		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
