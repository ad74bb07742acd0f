package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig     `envconfig:"SERVER"`
	Database DatabaseConfig   `envconfig:"DB"`
	Redis    RedisConfig      `envconfig:"REDIS"`
	Storage  StorageConfig    `envconfig:"STORAGE"`
	Assembly AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	Editor   EditorConfig     `envconfig:"EDITOR"`
	Poll     PollConfig       `envconfig:"POLL"`
	Sync     SyncConfig       `envconfig:"SYNC"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string `split_words:"true" default:"sqlite"` // "postgres" or "sqlite"
	Path        string `split_words:"true" default:"lasto.db"`
	Host        string `split_words:"true" default:"localhost"`
	Port        string `split_words:"true" default:"5432"`
	User        string `split_words:"true" default:"postgres"`
	Password    string `split_words:"true" default:"postgres"`
	Name        string `split_words:"true" default:"lasto"`
	SSLMode     string `split_words:"true" default:"disable"`
	MaxConns    int    `split_words:"true" default:"25"`
	MinConns    int    `split_words:"true" default:"5"`
	AutoMigrate bool   `split_words:"true" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// StorageConfig holds MinIO configuration
type StorageConfig struct {
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"lasto-backup"`
	UseSSL          bool   `split_words:"true" default:"false"`
}

// AssemblyAIConfig holds transcription provider configuration
type AssemblyAIConfig struct {
	APIKey       string `split_words:"true"`
	BaseURL      string `split_words:"true"`
	LanguageCode string `split_words:"true" default:"pl"`
}

// EditorConfig holds transcript editor behaviour
type EditorConfig struct {
	Locale       string        `split_words:"true" default:"pl"`
	SaveDebounce time.Duration `split_words:"true" default:"2s"`
	EditTTL      time.Duration `split_words:"true" default:"10m"`
	FillerWords  []string      `split_words:"true" default:"yyy,eee,yhm,hmm"`
}

// PollConfig bounds transcription status polling
type PollConfig struct {
	Interval        time.Duration `split_words:"true" default:"3s"`
	Timeout         time.Duration `split_words:"true" default:"2h"`
	MaxUnauthorized int           `split_words:"true" default:"3"`
}

// SyncConfig holds cloud backup configuration
type SyncConfig struct {
	Backend       string        `split_words:"true" default:"pantry"` // "pantry", "redis", "minio" or "none"
	PantryID      string        `split_words:"true"`
	PantryBaseURL string        `split_words:"true" default:"https://getpantry.cloud/apiv1/pantry"`
	Basket        string        `split_words:"true" default:"lastoHistory"`
	PullInterval  time.Duration `split_words:"true" default:"60s"`
	ChunkSize     int           `split_words:"true" default:"50"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Sync.Backend {
	case "pantry", "redis", "minio", "none":
	default:
		return fmt.Errorf("SYNC_BACKEND must be pantry, redis, minio or none, got %q", c.Sync.Backend)
	}
	if _, err := language.Parse(c.Editor.Locale); err != nil {
		return fmt.Errorf("EDITOR_LOCALE is not a valid language tag: %w", err)
	}
	if c.Sync.ChunkSize <= 0 {
		return fmt.Errorf("SYNC_CHUNK_SIZE must be positive")
	}
	if c.Poll.Interval <= 0 || c.Poll.Timeout <= 0 {
		return fmt.Errorf("POLL_INTERVAL and POLL_TIMEOUT must be positive")
	}
	return nil
}

// LocaleTag returns the editor locale as a language tag
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Editor.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
