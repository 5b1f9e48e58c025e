package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nomadcxx/neischeck/internal/paths"
	"github.com/Nomadcxx/neischeck/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "2024", cfg.Dates.YearPrefix)
	assert.Equal(t, "회", cfg.Dates.CountSuffix)
	assert.Equal(t, "자율활동", cfg.Dates.Category)
	assert.Equal(t, 0.7, cfg.Reading.SimilarityThreshold)
	assert.Equal(t, 4, cfg.Reading.HeaderRow)
	assert.NoError(t, cfg.Validate())

	as, err := cfg.ActivitySchema()
	require.NoError(t, err)
	assert.Equal(t, sheet.ColumnRef{Letter: "E"}, as.Text)

	rs, err := cfg.ReadingSchema()
	require.NoError(t, err)
	assert.Equal(t, sheet.ColumnRef{Header: "독서활동 상황"}, rs.Books)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold zero", func(c *Config) { c.Reading.SimilarityThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.Reading.SimilarityThreshold = 1.5 }},
		{"bad year prefix", func(c *Config) { c.Dates.YearPrefix = "24" }},
		{"empty suffix", func(c *Config) { c.Dates.CountSuffix = " " }},
		{"header row zero", func(c *Config) { c.Dates.HeaderRow = 0 }},
		{"bad column letter", func(c *Config) { c.Reading.BooksColumn = "col:1" }},
		{"empty delimiter", func(c *Config) { c.Reading.Delimiter = "" }},
		{"upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"watch mode", func(c *Config) { c.Watch.Mode = "grades" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[dates]
year_prefix = "2025"

[reading]
similarity_threshold = 0.85
books_column = "col:G"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2025", cfg.Dates.YearPrefix)
	assert.Equal(t, "회", cfg.Dates.CountSuffix)
	assert.Equal(t, 0.85, cfg.Reading.SimilarityThreshold)
	assert.Equal(t, "col:G", cfg.Reading.BooksColumn)
	assert.Equal(t, "번호", cfg.Reading.StudentColumn)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv("NEISCHECK_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[reading]\nsimilarity_threshold = 2.0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	cfg := DefaultConfig()
	cfg.Reading.SimilarityThreshold = 0.8
	cfg.Watch.Inbox = "/srv/neis/inbox"
	cfg.Server.AllowedOrigins = []string{"https://school.example"}
	require.NoError(t, cfg.Save())
	assert.True(t, ConfigExists())

	loaded, err := Load(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
