package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// one or more environment variables. Database connection details may be
// supplied either as a single DATABASE_URL or as the discrete PG* variables.
type Config struct {
	Env            string // application environment ("dev", "prod")
	Port           string // HTTP port to listen on
	DatabaseURL    string // PostgreSQL DSN
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	UploadDir      string // root directory for uploaded files
}

// Load reads configuration values from environment variables and returns a
// Config. JWT_SECRET and the database location are required; everything else
// falls back to a sensible default.
func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		DatabaseURL:    databaseURL(),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
	}
}

// databaseURL resolves the PostgreSQL DSN. DATABASE_URL wins when set;
// otherwise the DSN is assembled from the individual PG* variables.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := must("PGHOST")
	port := getenv("PGPORT", "5432")
	user := must("PGUSER")
	pass := os.Getenv("PGPASSWORD") // empty allowed
	name := must("PGDATABASE")
	if pass != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s", user, host, port, name)
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
