package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/fairmeet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 8080, cfg.Monitoring.Port)
	assert.Equal(t, "postcodes", cfg.Geocoder.Type)
	assert.Equal(t, []string{"tube", "elizabeth-line"}, cfg.Transit.Modes)
	assert.Equal(t, 2000, cfg.Transit.SearchRadius)
	assert.Equal(t, 400, cfg.Venues.Radius)
	assert.Equal(t, 24*time.Hour, cfg.Venues.TTL)
	assert.Equal(t, time.Hour, cfg.Venues.SweepInterval)
	assert.Equal(t, 8*time.Second, cfg.Ranking.ProviderTimeout)
	assert.Equal(t, 3, cfg.Ranking.TopN)
	assert.Equal(t, 20, cfg.Candidates.Max)
	assert.Contains(t, cfg.Candidates.Interchanges, "London Bridge")
	assert.False(t, cfg.Database.Enabled())
}

func TestMustLoad_FromEnv(t *testing.T) {
	t.Setenv("FAIRMEET_ENV", "local")
	t.Setenv("FAIRMEET_HTTP_PORT", "9000")
	t.Setenv("FAIRMEET_GEOCODER_TYPE", "google")
	t.Setenv("FAIRMEET_GEOCODER_API_KEY", "testAPIKey")
	t.Setenv("FAIRMEET_RANKING_PROVIDER_TIMEOUT", "5s")
	t.Setenv("FAIRMEET_CANDIDATES_INTERCHANGES", "Bank,Holborn")
	t.Setenv("FAIRMEET_POSTGRES_HOST", "testHost")
	t.Setenv("FAIRMEET_POSTGRES_PORT", "12345")
	t.Setenv("FAIRMEET_POSTGRES_USER", "admin")
	t.Setenv("FAIRMEET_POSTGRES_PASSWORD", "adminpass")
	t.Setenv("FAIRMEET_POSTGRES_DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "google", cfg.Geocoder.Type)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Ranking.ProviderTimeout)
	assert.Equal(t, []string{"Bank", "Holborn"}, cfg.Candidates.Interchanges)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "fairmeet.yaml")
	filet.File(t, path, `
env: development
venues:
  api_key: places-key
  ttl: 12h
candidates:
  max: 10
  midpoint_radius: 5000
  interchanges:
    - Bank
    - Moorgate
`)
	t.Setenv("FAIRMEET_CONFIG", path)
	t.Setenv("FAIRMEET_CANDIDATES_MAX", "15")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "places-key", cfg.Venues.APIKey)
	assert.Equal(t, 12*time.Hour, cfg.Venues.TTL)
	assert.Equal(t, 15, cfg.Candidates.Max, "environment wins over the file")
	assert.InDelta(t, 5000, cfg.Candidates.MidpointRadius, 1e-9)
	assert.Equal(t, []string{"Bank", "Moorgate"}, cfg.Candidates.Interchanges)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "port is not a number",
			env:  map[string]string{"FAIRMEET_HTTP_PORT": "error_value"},
			want: "failed to parse configuration",
		},
		{
			name: "timeout is not a duration",
			env:  map[string]string{"FAIRMEET_RANKING_PROVIDER_TIMEOUT": "error_value"},
			want: "failed to parse configuration",
		},
		{
			name: "unknown geocoder",
			env:  map[string]string{"FAIRMEET_GEOCODER_TYPE": "mapbox"},
			want: "invalid configuration",
		},
		{
			name: "google without key",
			env:  map[string]string{"FAIRMEET_GEOCODER_TYPE": "google"},
			want: "invalid configuration",
		},
		{
			name: "database without name",
			env:  map[string]string{"FAIRMEET_POSTGRES_HOST": "db", "FAIRMEET_POSTGRES_USER": "admin"},
			want: "invalid configuration",
		},
		{
			name: "missing config file",
			env:  map[string]string{"FAIRMEET_CONFIG": filepath.Join(t.TempDir(), "missing.yaml")},
			want: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Panics(t, func() { config.MustLoad() })
		})
	}
}
