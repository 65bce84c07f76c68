package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string `env:"APP_ADDR,default=:8080"`
	GinMode string `env:"GIN_MODE"`

	APIBaseURL    string        `env:"API_BASE_URL,required"`
	APITimeout    time.Duration `env:"API_TIMEOUT,default=15s"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`

	SessionSecret  string        `env:"SESSION_SECRET,required"`
	SessionBackend string        `env:"SESSION_BACKEND,default=memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL,default=24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE,default=false"`

	MySQLDSN      string `env:"MYSQL_DSN"`
	RedisAddr     string `env:"REDIS_ADDR,default=127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	GooglePlacesKey    string `env:"GOOGLE_PLACES_KEY"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	RateLimitRPS      int           `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST,default=10"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN,default=60s"`
	Timezone          string        `env:"APP_TIMEZONE,default=Africa/Lagos"`
}

// LoadEnv reads an optional .env file, then decodes the process environment.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	var env Env
	if err := envdecode.StrictDecode(&env); err != nil {
		return Env{}, err
	}
	if err := env.validate(); err != nil {
		return Env{}, err
	}
	env.APIBaseURL = strings.TrimRight(strings.TrimSpace(env.APIBaseURL), "/")
	env.PublicBaseURL = strings.TrimRight(strings.TrimSpace(env.PublicBaseURL), "/")
	return env, nil
}

func (e Env) validate() error {
	switch strings.ToLower(e.SessionBackend) {
	case "memory", "redis":
	case "mysql":
		if strings.TrimSpace(e.MySQLDSN) == "" {
			return errors.New("MYSQL_DSN is required when SESSION_BACKEND=mysql")
		}
	default:
		return errors.New("SESSION_BACKEND must be one of memory, mysql, redis")
	}
	if len(e.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (e Env) AllowedOrigins() []string {
	out := []string{}
	for _, o := range strings.Split(e.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location resolves the display timezone, defaulting to UTC.
func (e Env) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
