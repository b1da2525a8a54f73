package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
	require.Equal(t, "bcrypt", cfg.Auth.PasswordAlgorithm)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	require.False(t, cfg.Redis.Enabled())
	require.True(t, cfg.Server.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/crm-test.db")
	t.Setenv("ACCESS_TOKEN_DURATION", "60")
	t.Setenv("TRUSTED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "/tmp/crm-test.db", cfg.Database.SQLitePath)
	require.Equal(t, time.Minute, cfg.Auth.AccessTokenDuration)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
	require.True(t, cfg.Redis.Enabled())
	require.Equal(t, "cache:6379", cfg.Redis.Address())
	require.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ACCESS_TOKEN_DURATION", "soon")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	require.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short jwt secret", map[string]string{"JWT_SECRET": "short"}},
		{"unknown driver", map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "mysql"}},
		{"unknown token format", map[string]string{"JWT_SECRET": testSecret, "AUTH_TOKEN_FORMAT": "saml"}},
		{"bad paseto key", map[string]string{"AUTH_TOKEN_FORMAT": "paseto", "PASETO_KEY": "too-short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "crm", SSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=crm sslmode=disable", c.ConnectionString())

	c.ChannelBinding = "require"
	require.Contains(t, c.ConnectionString(), " channel_binding=require")
}
