package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config collects all environment-backed settings for the application.
type Config struct {
	Port        string
	MongoURI    string
	Database    string
	JWTSecret   string
	EmailSender string

	// Postmark
	PostmarkToken string

	// Momo payment gateway
	MomoEndpoint    string
	MomoPartnerCode string
	MomoAccessKey   string
	MomoSecretKey   string
	MomoRedirectURL string
	MomoIPNURL      string

	// Kafka behavioral event stream
	KafkaBrokers []string
	EventsTopic  string
}

// Load reads .env (if present) and assembles the configuration from
// environment variables.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	cfg := Config{
		Port:            getenv("PORT", "8000"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		Database:        getenv("MONGO_DATABASE", "ecommerce"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		EmailSender:     os.Getenv("EMAIL_SENDER"),
		PostmarkToken:   os.Getenv("POSTMARK_API_TOKEN"),
		MomoEndpoint:    getenv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
		MomoPartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		MomoAccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		MomoSecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		MomoRedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
		MomoIPNURL:      os.Getenv("MOMO_IPN_URL"),
		EventsTopic:     getenv("KAFKA_EVENTS_TOPIC", "behavior-events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
