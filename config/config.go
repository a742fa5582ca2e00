package config

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds every setting the API needs at startup.
type Config struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDB        string
	RedisURL       string
	RequestTimeout time.Duration
	CORSOrigins    []string

	Tokens  TokenConfig
	Cookie  CookieConfig
	Payment PaymentConfig
	Images  ImageConfig
	AI      AIConfig
	Events  EventsConfig

	UseSecrets    bool
	SecretsPrefix string
	// SecretsBundle names one JSON secret holding every key. When empty each
	// key is its own secret under SecretsPrefix.
	SecretsBundle string
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// CookieConfig is the single cookie policy for the session cookies.
type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
	// Zero means a session cookie.
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

type PaymentConfig struct {
	Provider            string // razorpay | stripe
	Currency            string
	RazorpayKeyID       string
	RazorpayKeySecret   string
	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutStore       string // redis | dynamodb
	CheckoutTable       string
	CheckoutTTL         time.Duration
}

type ImageConfig struct {
	Provider            string // s3 | cloudinary
	S3Bucket            string
	S3Prefix            string
	S3PublicBaseURL     string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

type EventsConfig struct {
	OrderTopicARN     string
	InventoryTopicARN string
	OrderQueueURL     string
}

// SecretGetter resolves named secrets.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Load reads the environment (and a local .env when present).
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	production := env == "production"

	accessTTL, err := parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "1d"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "10d"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}
	checkoutTTL, err := parseDuration(getEnv("CHECKOUT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_TTL: %w", err)
	}
	timeout, err := parseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Env:            env,
		Port:           getEnv("PORT", "8000"),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDB:        getEnv("DB_NAME", "ecommerce"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RequestTimeout: timeout,
		CORSOrigins:    splitList(getEnv("CORS_ORIGIN", "http://localhost:5173")),
		Tokens: TokenConfig{
			AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
		},
		Cookie: NewCookieConfig(production, getEnv("COOKIE_DOMAIN", "")),
		Payment: PaymentConfig{
			Provider:            strings.ToLower(getEnv("PAYMENT_PROVIDER", "razorpay")),
			Currency:            getEnv("PAYMENT_CURRENCY", "INR"),
			RazorpayKeyID:       os.Getenv("RAZOR_KEY_ID"),
			RazorpayKeySecret:   os.Getenv("RAZOR_KEY_SECRET"),
			StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			CheckoutStore:       strings.ToLower(getEnv("CHECKOUT_STORE", "redis")),
			CheckoutTable:       getEnv("CHECKOUT_TABLE", "checkout_snapshots"),
			CheckoutTTL:         checkoutTTL,
		},
		Images: ImageConfig{
			Provider:            strings.ToLower(getEnv("IMAGE_STORE", "s3")),
			S3Bucket:            os.Getenv("AWS_S3_BUCKET"),
			S3Prefix:            getEnv("AWS_S3_PREFIX", "products"),
			S3PublicBaseURL:     os.Getenv("AWS_CLOUDFRONT_DOMAIN"),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "products"),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Events: EventsConfig{
			OrderTopicARN:     os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
			InventoryTopicARN: os.Getenv("INVENTORY_EVENTS_TOPIC_ARN"),
			OrderQueueURL:     os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		},
		UseSecrets:    os.Getenv("AWS_USE_SECRETS") == "true",
		SecretsPrefix: getEnv("AWS_SECRETS_PREFIX", "storefront/"),
		SecretsBundle: os.Getenv("AWS_SECRETS_BUNDLE"),
	}

	if cfg.UseSecrets {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			zap.L().Warn("secrets manager unavailable, using environment values", zap.Error(err))
		} else {
			cfg.ApplySecrets(ctx, aws_pkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewCookieConfig returns the cookie policy: cross-site secure cookies in
// production, lax cookies elsewhere.
func NewCookieConfig(production bool, domain string) CookieConfig {
	cc := CookieConfig{
		Path:     "/",
		Domain:   domain,
		HTTPOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		cc.SameSite = http.SameSiteNoneMode
	}
	return cc
}

// ApplySecrets overrides sensitive values with Secrets Manager entries. Lookups
// that fail keep the environment value.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) {
	targets := map[string]*string{
		"ACCESS_TOKEN_SECRET":   &c.Tokens.AccessSecret,
		"REFRESH_TOKEN_SECRET":  &c.Tokens.RefreshSecret,
		"RAZOR_KEY_SECRET":      &c.Payment.RazorpayKeySecret,
		"STRIPE_API_KEY":        &c.Payment.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": &c.Payment.StripeWebhookSecret,
		"CLOUDINARY_API_SECRET": &c.Images.CloudinaryAPISecret,
		"GEMINI_API_KEY":        &c.AI.GeminiAPIKey,
		"MONGODB_URI":           &c.MongoURI,
	}
	for name, dst := range targets {
		v, err := sm.GetSecret(ctx, c.secretName(name))
		if err != nil || v == "" {
			continue
		}
		*dst = v
	}
}

func (c *Config) secretName(key string) string {
	if c.SecretsBundle != "" {
		return c.SecretsBundle + "#" + key
	}
	return c.SecretsPrefix + key
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.Tokens.AccessSecret == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET")
	}
	if c.Tokens.RefreshSecret == "" {
		missing = append(missing, "REFRESH_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	switch c.Payment.Provider {
	case "razorpay", "stripe":
	default:
		return fmt.Errorf("unsupported PAYMENT_PROVIDER %q", c.Payment.Provider)
	}
	switch c.Images.Provider {
	case "s3", "cloudinary":
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.Images.Provider)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// parseDuration accepts time.ParseDuration syntax plus a whole-day "d" suffix.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSuffix(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
