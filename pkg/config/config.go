package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Firebase FirebaseConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Storage  StorageConfig
	JWT      JWTConfig
	AMQP     AMQPConfig
	Email    EmailConfig
	Cron     CronConfig
}

type ServerConfig struct {
	Port            string
	AllowOrigins    string
	ShutdownTimeout time.Duration
	SeedData        bool
}

// BackendConfig selects the driver behind each backend concern.
type BackendConfig struct {
	Documents string // firestore | postgres | mongo | memory
	Files     string // s3 | r2 | memory
	Auth      string // identitytoolkit | local | memory

	AuthResolveTimeout time.Duration
}

type FirebaseConfig struct {
	APIKey            string
	AuthDomain        string
	ProjectID         string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
	CredentialsFile   string
	AuthEmulatorHost  string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN prefers DATABASE_URL and falls back to the discrete settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return "host=" + d.Host + " port=" + d.Port + " user=" + d.User +
		" password=" + d.Password + " dbname=" + d.DBName + " sslmode=disable"
}

type MongoConfig struct {
	URI      string
	Database string
}

type StorageConfig struct {
	Bucket      string
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	PublicURL   string
	R2AccountID string
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

type AMQPConfig struct {
	URL string // empty disables booking events
}

type EmailConfig struct {
	ResendAPIKey string // empty disables email
	From         string
}

type CronConfig struct {
	DestinationCounts string
}

func Load() *Config {
	godotenv.Load() // .env is optional

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			AllowOrigins:    getEnv("CORS_ALLOW_ORIGINS", "*"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			SeedData:        getEnvBool("SEED_DATA", false),
		},
		Backend: BackendConfig{
			Documents: strings.ToLower(getEnv("DOCUMENT_STORE", "firestore")),
			Files:     strings.ToLower(getEnv("FILE_STORE", "s3")),
			Auth:      strings.ToLower(getEnv("AUTH_PROVIDER", "identitytoolkit")),

			AuthResolveTimeout: getEnvDuration("AUTH_RESOLVE_TIMEOUT", 10*time.Second),
		},
		Firebase: FirebaseConfig{
			APIKey:            getEnv("FIREBASE_API_KEY", "stayhere-dev-api-key"),
			AuthDomain:        getEnv("FIREBASE_AUTH_DOMAIN", "stayhere-dev.firebaseapp.com"),
			ProjectID:         getEnv("FIREBASE_PROJECT_ID", "stayhere-dev"),
			StorageBucket:     getEnv("FIREBASE_STORAGE_BUCKET", "stayhere-dev.firebasestorage.app"),
			MessagingSenderID: getEnv("FIREBASE_MESSAGING_SENDER_ID", ""),
			AppID:             getEnv("FIREBASE_APP_ID", ""),
			CredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			AuthEmulatorHost:  getEnv("FIREBASE_AUTH_EMULATOR_HOST", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "stayhere"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "stayhere"),
		},
		Storage: StorageConfig{
			Bucket:      getEnv("STORAGE_BUCKET", "stayhere-images"),
			Region:      getEnv("STORAGE_REGION", "eu-central-1"),
			Endpoint:    getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:   getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:   getEnv("STORAGE_SECRET_KEY", ""),
			PublicURL:   getEnv("STORAGE_PUBLIC_URL", ""),
			R2AccountID: getEnv("R2_ACCOUNT_ID", ""),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			Issuer:     getEnv("JWT_ISSUER", "stayhere"),
			TokenTTL:   getEnvDuration("JWT_TOKEN_TTL", time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 30*24*time.Hour),
		},
		AMQP: AMQPConfig{
			URL: getEnv("RABBITMQ_URL", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "StayHere <noreply@stayhere.app>"),
		},
		Cron: CronConfig{
			DestinationCounts: getEnv("CRON_DESTINATION_COUNTS", "0 * * * *"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
