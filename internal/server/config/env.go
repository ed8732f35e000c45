package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/proxy201/nexus-auth/internal/timex"
)

// parseEnv overlays configuration from environment variables.
//
// Recognized variables:
//
//	ADDRESS         HTTP bind address
//	DATABASE_DSN    full PostgreSQL DSN; wins over the DB_* parts
//	DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL
//	                individual connection parameters assembled into a DSN
//	JWT_SECRET      HMAC signing secret
//	JWT_EXPIRES_IN  token lifetime ("7d", "24h", "30m", ...)
//	REDIRECT_URL    post-auth destination
//	APP_ENV         "production" enables the Secure cookie attribute
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.Address = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	} else if dsn := dsnFromParts(); dsn != "" {
		config.DatabaseDSN = dsn
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if d, err := timex.Parse(v); err == nil {
			config.TokenValidity = d
		}
	}
	if v := os.Getenv("REDIRECT_URL"); v != "" {
		config.RedirectURL = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Production = v == "production"
	}
}

// dsnFromParts assembles a pgx DSN from the individual DB_* variables.
// Returns an empty string unless at least DB_HOST is set.
func dsnFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "nexus"
	}
	sslmode := "disable"
	if os.Getenv("DB_SSL") == "true" {
		sslmode = "require"
	}

	userinfo := url.User(user)
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		userinfo = url.UserPassword(user, pass)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userinfo,
		Host:     fmt.Sprintf("%s:%s", host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}
