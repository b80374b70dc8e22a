package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	ChatFeedCapacity     int
	ChatHistorySize      int
	ActivityFeedCapacity int
	ActivityPageSize     int
	ChatRateLimit        float64 // messages per second per connection, 0 disables
	ChatRateBurst        int

	MongoURI string
	MongoDB  string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTTL         time.Duration
	PushConcurrency int

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFrom         string
	TwilioTransport    string
	DefaultCountryCode string

	ReminderCron  string
	ReminderTitle string
	ReminderBody  string
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "3001"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		ChatFeedCapacity:     getInt("CHAT_FEED_CAPACITY", 100),
		ChatHistorySize:      getInt("CHAT_HISTORY_SIZE", 50),
		ActivityFeedCapacity: getInt("ACTIVITY_FEED_CAPACITY", 200),
		ActivityPageSize:     getInt("ACTIVITY_PAGE_SIZE", 50),
		ChatRateLimit:        getFloat("CHAT_RATE_LIMIT", 5),
		ChatRateBurst:        getInt("CHAT_RATE_BURST", 10),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "solo_system"),

		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@solosystem.app"),
		PushTTL:         getDuration("PUSH_TTL", 24*time.Hour),
		PushConcurrency: getInt("PUSH_CONCURRENCY", 16),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:         getEnv("TWILIO_WHATSAPP_FROM", "+14155238886"),
		TwilioTransport:    getEnv("TWILIO_CHANNEL_PREFIX", "whatsapp:"),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "55"),

		ReminderCron:  os.Getenv("REMINDER_CRON"),
		ReminderTitle: getEnv("REMINDER_TITLE", "Daily quests are waiting"),
		ReminderBody:  getEnv("REMINDER_BODY", "Complete today's quests to keep your streak alive."),
	}
}

// PushEnabled reports whether VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPrivateKey != ""
}

// CarrierEnabled reports whether outbound messages go to the real carrier.
func (c *Config) CarrierEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.Warnf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		logrus.Warnf("Invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.Warnf("Invalid %s=%q, using %s", key, v, fallback)
		return fallback
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
