package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:             "localhost",
			Port:             3306,
			Database:         "glean",
			Username:         "user",
			MaxRetryAttempts: 3,
		},
		Review: ReviewConfig{
			ScheduleLimit: 10,
			TimeZone:      "Local",
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name:            "no config file uses defaults",
			configContent:   "",
			useExplicitPath: false,
			want:            defaultConfig(),
		},
		{
			name: "valid config file with custom values",
			configContent: `database:
  host: db.internal
  port: 3307
  database: glean_test
  username: glean
  tls: true
  params:
    charset: utf8mb4
  max_open_conns: 10
  max_idle_conns: 2
  conn_max_lifetime_seconds: 300
  max_retry_attempts: 5
review:
  schedule_limit: 25
  time_zone: Asia/Tokyo
`,
			useExplicitPath: false,
			want: &Config{
				Database: DatabaseConfig{
					Host:             "db.internal",
					Port:             3307,
					Database:         "glean_test",
					Username:         "glean",
					TLS:              true,
					Params:           map[string]string{"charset": "utf8mb4"},
					MaxOpenConns:     10,
					MaxIdleConns:     2,
					ConnMaxLifetime:  300,
					MaxRetryAttempts: 5,
				},
				Review: ReviewConfig{
					ScheduleLimit: 25,
					TimeZone:      "Asia/Tokyo",
				},
			},
		},
		{
			name: "partial config with missing fields uses defaults",
			configContent: `review:
  schedule_limit: 5
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Review.ScheduleLimit = 5
				return cfg
			}(),
		},
		{
			name: "password comes from the environment",
			configContent: `database:
  host: db.internal
`,
			useExplicitPath: true,
			env:             map[string]string{"DB_PASSWORD": "secret"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Host = "db.internal"
				cfg.Database.Password = "secret"
				return cfg
			}(),
		},
		{
			name: "invalid YAML format",
			configContent: `database:
  host: localhost
  invalid yaml format here [[[
`,
			useExplicitPath: false,
			wantErr:         true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown time zone",
			configContent: `review:
  time_zone: Mars/Olympus_Mons
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"review.time_zone must be an IANA time zone name",
			},
		},
		{
			name: "schedule limit below the minimum",
			configContent: `review:
  schedule_limit: 0
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"schedule_limit",
			},
		},
		{
			name: "card template must exist",
			configContent: `review:
  card_template: /non/existent/card.tmpl
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"review.card_template must be an existing and readable file",
			},
		},
		{
			name: "port out of range",
			configContent: `database:
  port: 70000
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"port",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("HOME", tempDir)
			t.Setenv("DB_PASSWORD", "")
			t.Setenv("GLEAN_TIME_ZONE", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "glean.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}

				originalDir, err := os.Getwd()
				require.NoError(t, err)
				defer func() {
					err := os.Chdir(originalDir)
					require.NoError(t, err)
				}()

				err = os.Chdir(tempDir)
				require.NoError(t, err)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewConfig_Location(t *testing.T) {
	loc, err := ReviewConfig{TimeZone: "Asia/Tokyo"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	local, err := ReviewConfig{TimeZone: "Local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, local)

	_, err = ReviewConfig{TimeZone: "Nowhere/Special"}.Location()
	assert.Error(t, err)
}
