package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   chat/payment credentials), security settings
// - default: Values common across all environments (timeouts, log format)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Chat      ChatConfig
	Payment   PaymentConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	// Public base URL used to build proof-upload and review links.
	BaseURL string `envconfig:"BASE_URL" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// AdminConfig identifies the panel administrator. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Username     string `envconfig:"ADMIN_USER" required:"true"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

type ChatConfig struct {
	APIBaseURL string `envconfig:"CHAT_API_URL" required:"true"`
	BotToken   string `envconfig:"CHAT_BOT_TOKEN" required:"true"`
	GuildID    string `envconfig:"CHAT_GUILD_ID" required:"true"`
	// OwnerUserID gates administrator-only lifecycle actions.
	OwnerUserID       string `envconfig:"CHAT_OWNER_USER_ID" required:"true"`
	MainChannelID     string `envconfig:"CHAT_MAIN_CHANNEL_ID" default:""`
	ReviewsChannelID  string `envconfig:"CHAT_REVIEWS_CHANNEL_ID" default:""`
	ClientRoleID      string `envconfig:"CHAT_CLIENT_ROLE_ID" default:""`
	InteractionSecret string `envconfig:"CHAT_INTERACTION_SECRET" required:"true"`
}

type PaymentConfig struct {
	APIBaseURL   string `envconfig:"PAYMENT_API_URL" default:""`
	ClientID     string `envconfig:"PAYMENT_CLIENT_ID" default:""`
	ClientSecret string `envconfig:"PAYMENT_CLIENT_SECRET" default:""`
	PixKey       string `envconfig:"PAYMENT_PIX_KEY" default:""`
	Sandbox      bool   `envconfig:"PAYMENT_SANDBOX" default:"true"`
	ChargeExpiry int    `envconfig:"PAYMENT_CHARGE_EXPIRY_SEC" default:"3600"`
}

type LifecycleConfig struct {
	// How long an order may sit unpaid before its ticket is abandoned.
	PaymentTimeout time.Duration `envconfig:"LIFECYCLE_PAYMENT_TIMEOUT" default:"60s"`
	// How long a delivered order waits for a review before auto-closing.
	ReviewTimeout time.Duration `envconfig:"LIFECYCLE_REVIEW_TIMEOUT" default:"24h"`
	// Delay between the closing notice and the channel deletion.
	CleanupGrace time.Duration `envconfig:"LIFECYCLE_CLEANUP_GRACE" default:"5s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8889",
			BaseURL: "http://localhost:8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Chat: ChatConfig{
			APIBaseURL:        "http://localhost:9999",
			BotToken:          "test-token",
			GuildID:           "guild-1",
			OwnerUserID:       "owner-1",
			InteractionSecret: "test-interaction-secret",
		},
		Lifecycle: LifecycleConfig{
			PaymentTimeout: 60 * time.Second,
			ReviewTimeout:  24 * time.Hour,
			CleanupGrace:   5 * time.Second,
		},
	}
}
