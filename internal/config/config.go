package config

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType    string // file, postgres, sqlite
	DBDSN     string
	SQLiteDSN string
	DataDir   string
	SeedFile  string

	AuthMode       string // local, jwt, remote
	AuthToken      string
	JWTSecret      string
	AuthServiceURL string

	QuizQuestionLimit int
	MoodHistoryLimit  int
	JournalLimit      int
	QuizResultsLimit  int

	ShutdownTimeout time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the process configuration once. A .env file in the working
// directory is applied first; real environment variables win over it.
func Load() *Config {
	once.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load(".env")
		}
		v := viper.New()
		v.AutomaticEnv()
		c, err := New(v)
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// New builds a validated Config from v, filling in defaults for unset keys.
func New(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	c := &Config{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		HTTPAddr: v.GetString("HTTP_ADDR"),

		DBType:    v.GetString("STORAGE_BACKEND"),
		DBDSN:     v.GetString("POSTGRES_DSN"),
		SQLiteDSN: v.GetString("SQLITE_DSN"),
		DataDir:   v.GetString("DATA_DIR"),
		SeedFile:  v.GetString("SEED_FILE"),

		AuthMode:       v.GetString("AUTH_MODE"),
		AuthToken:      v.GetString("AUTH_TOKEN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AuthServiceURL: v.GetString("AUTH_SERVICE_URL"),

		QuizQuestionLimit: v.GetInt("QUIZ_QUESTION_LIMIT"),
		MoodHistoryLimit:  v.GetInt("MOOD_HISTORY_LIMIT"),
		JournalLimit:      v.GetInt("JOURNAL_LIMIT"),
		QuizResultsLimit:  v.GetInt("QUIZ_RESULTS_LIMIT"),

		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8088")
	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("SQLITE_DSN", "file:studenthub.db")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("AUTH_MODE", "local")
	v.SetDefault("AUTH_TOKEN", "MOCK-TOKEN")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_SERVICE_URL", "")
	v.SetDefault("QUIZ_QUESTION_LIMIT", 10)
	v.SetDefault("MOOD_HISTORY_LIMIT", 30)
	v.SetDefault("JOURNAL_LIMIT", 50)
	v.SetDefault("QUIZ_RESULTS_LIMIT", 10)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "file":
		if c.DataDir == "" {
			return errors.New("File storage requires DATA_DIR to be set")
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLiteDSN == "" {
			return errors.New("SQLITE_DSN is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, postgres, sqlite")
	}

	switch c.AuthMode {
	case "local":
		if c.AuthToken == "" {
			return errors.New("AUTH_TOKEN is required when AUTH_MODE=local")
		}
		if c.Env == "production" {
			return errors.New("AUTH_MODE=local is not allowed in production")
		}
	case "jwt":
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: local, jwt, remote")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.QuizQuestionLimit <= 0 || c.MoodHistoryLimit <= 0 || c.JournalLimit <= 0 || c.QuizResultsLimit <= 0 {
		return errors.New("list limits must be positive")
	}
	return nil
}
