package connection

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"

	ProviderFirebase = "firebase"
	ProviderLocal    = "local"
)

type Config struct {
	// Server
	Port        string
	GinMode     string
	AppEnv      string
	CORSOrigins []string
	LogLevel    string

	// Storage and auth
	StoreBackend      string
	CredentialsFile   string
	FirebaseProjectID string
	AuthProvider      string
	FirebaseWebAPIKey string
	JWTSecret         string
	JWTRefreshSecret  string

	// reCAPTCHA Enterprise, disabled when RecaptchaSiteKey is empty
	RecaptchaSiteKey     string
	RecaptchaProjectID   string
	RecaptchaCredentials string

	// AI advisor, disabled when GeminiAPIKey is empty
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	SentryDSN string
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		AppEnv:      getEnv("APP_ENV", "production"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreBackend:      getEnv("STORE_BACKEND", BackendFirestore),
		CredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS_1", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		AuthProvider:      getEnv("AUTH_PROVIDER", ProviderFirebase),
		FirebaseWebAPIKey: getEnv("FIREBASE_WEB_API_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET_KEY", ""),
		JWTRefreshSecret:  getEnv("JWT_REFRESH_SECRET_KEY", ""),

		RecaptchaSiteKey:     getEnv("RECAPTCHA_SITE_KEY", ""),
		RecaptchaProjectID:   getEnv("GOOGLE_CLOUD_PROJECT_ID", ""),
		RecaptchaCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS_2", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s")),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY are required"))
	} else if c.JWTSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ"))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unknown GIN_MODE %q", c.GinMode))
	}
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	switch c.AuthProvider {
	case ProviderLocal:
	case ProviderFirebase:
		if c.StoreBackend == BackendMemory {
			errs = append(errs, errors.New("AUTH_PROVIDER=firebase needs STORE_BACKEND=firestore"))
		}
		if c.FirebaseWebAPIKey == "" {
			errs = append(errs, errors.New("FIREBASE_WEB_API_KEY is required for AUTH_PROVIDER=firebase"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}
	if c.RecaptchaSiteKey != "" && c.RecaptchaProjectID == "" {
		errs = append(errs, errors.New("GOOGLE_CLOUD_PROJECT_ID is required when RECAPTCHA_SITE_KEY is set"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
