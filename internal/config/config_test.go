package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, ":8088", c.HTTPAddr)
	assert.Equal(t, "local", c.AuthMode)
	assert.Equal(t, 10, c.QuizQuestionLimit)
	assert.Equal(t, 30, c.MoodHistoryLimit)
	assert.Equal(t, 50, c.JournalLimit)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_DSN", "file:test.db")
	t.Setenv("QUIZ_QUESTION_LIMIT", "5")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	v := viper.New()
	v.AutomaticEnv()
	c, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.DBType)
	assert.Equal(t, "file:test.db", c.SQLiteDSN)
	assert.Equal(t, 5, c.QuizQuestionLimit)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Env: "development", DBType: "file", DataDir: "data",
			AuthMode: "local", AuthToken: "tok",
			QuizQuestionLimit: 10, MoodHistoryLimit: 30, JournalLimit: 50, QuizResultsLimit: 10,
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DBType = "postgres" }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) { c.DBType = "postgres"; c.DBDSN = "postgres://x" }},
		{name: "unknown backend", mutate: func(c *Config) { c.DBType = "mongo" }, wantErr: true},
		{name: "jwt without secret", mutate: func(c *Config) { c.AuthMode = "jwt" }, wantErr: true},
		{name: "remote without url", mutate: func(c *Config) { c.AuthMode = "remote" }, wantErr: true},
		{name: "local auth in production", mutate: func(c *Config) { c.Env = "production" }, wantErr: true},
		{name: "bad env", mutate: func(c *Config) { c.Env = "qa" }, wantErr: true},
		{name: "zero limit", mutate: func(c *Config) { c.JournalLimit = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
