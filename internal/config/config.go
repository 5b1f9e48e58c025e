package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/neischeck/internal/datecheck"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/paths"
	"github.com/Nomadcxx/neischeck/internal/reading"
	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/Nomadcxx/neischeck/internal/sheet"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NEISCHECK_SERVER_ADDR.
const EnvPrefix = "NEISCHECK"

type Config struct {
	Dates   DatesConfig   `mapstructure:"dates"`
	Reading ReadingConfig `mapstructure:"reading"`
	Server  ServerConfig  `mapstructure:"server"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DatesConfig describes the activity export and the date policy.
type DatesConfig struct {
	YearPrefix     string `mapstructure:"year_prefix"`
	CountSuffix    string `mapstructure:"count_suffix"`
	Category       string `mapstructure:"category"`
	Sheet          string `mapstructure:"sheet"`
	HeaderRow      int    `mapstructure:"header_row"`
	StudentColumn  string `mapstructure:"student_column"`
	CategoryColumn string `mapstructure:"category_column"`
	TextColumn     string `mapstructure:"text_column"`
}

// ReadingConfig describes the reading-activity export and detector settings.
type ReadingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	Delimiter           string  `mapstructure:"delimiter"`
	Sheet               string  `mapstructure:"sheet"`
	HeaderRow           int     `mapstructure:"header_row"`
	StudentColumn       string  `mapstructure:"student_column"`
	SubjectColumn       string  `mapstructure:"subject_column"`
	YearColumn          string  `mapstructure:"year_column"`
	GradeColumn         string  `mapstructure:"grade_column"`
	SemesterColumn      string  `mapstructure:"semester_column"`
	BooksColumn         string  `mapstructure:"books_column"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WatchConfig configures `neischeck watch`.
type WatchConfig struct {
	Inbox string `mapstructure:"inbox"`
	Mode  string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	policy := datecheck.DefaultPolicy()
	return &Config{
		Dates: DatesConfig{
			YearPrefix:     policy.YearPrefix,
			CountSuffix:    policy.CountSuffix,
			Category:       "자율활동",
			HeaderRow:      1,
			StudentColumn:  "col:A",
			CategoryColumn: "col:C",
			TextColumn:     "col:E",
		},
		Reading: ReadingConfig{
			SimilarityThreshold: reading.DefaultThreshold,
			Delimiter:           reading.DefaultDelimiter,
			HeaderRow:           4,
			StudentColumn:       "번호",
			SubjectColumn:       "과목 또는 영역",
			YearColumn:          "학년도",
			GradeColumn:         "학년",
			SemesterColumn:      "학기",
			BooksColumn:         "독서활동 상황",
		},
		Server: ServerConfig{
			Addr:           ":8787",
			MaxUploadMB:    20,
			AllowedOrigins: []string{"*"},
		},
		Watch: WatchConfig{
			Mode: ModeDates,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Watch modes.
const (
	ModeDates   = "dates"
	ModeReading = "reading"
)

// Load reads configuration from path, or from the default location when path
// is empty. A missing file yields the defaults; environment variables
// prefixed NEISCHECK_ override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only reaches Unmarshal for keys viper already knows.
	for _, key := range knownKeys {
		_ = v.BindEnv(key)
	}

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
		path = p
	}
	v.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var knownKeys = []string{
	"dates.year_prefix", "dates.count_suffix", "dates.category", "dates.sheet",
	"dates.header_row", "dates.student_column", "dates.category_column", "dates.text_column",
	"reading.similarity_threshold", "reading.delimiter", "reading.sheet", "reading.header_row",
	"reading.student_column", "reading.subject_column", "reading.year_column",
	"reading.grade_column", "reading.semester_column", "reading.books_column",
	"server.addr", "server.max_upload_mb", "server.allowed_origins",
	"watch.inbox", "watch.mode",
	"logging.level", "logging.file", "logging.max_size_mb", "logging.max_backups",
}

// Validate rejects values no flow can run with.
func (c *Config) Validate() error {
	var errs []error

	if err := c.DatePolicy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("dates: %w", err))
	}
	if _, err := c.ActivitySchema(); err != nil {
		errs = append(errs, fmt.Errorf("dates: %w", err))
	}
	if err := reading.ValidateThreshold(c.Reading.SimilarityThreshold); err != nil {
		errs = append(errs, fmt.Errorf("reading: %w", err))
	}
	if c.Reading.Delimiter == "" {
		errs = append(errs, errors.New("reading: delimiter must not be empty"))
	}
	if _, err := c.ReadingSchema(); err != nil {
		errs = append(errs, fmt.Errorf("reading: %w", err))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server: max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	switch c.Watch.Mode {
	case ModeDates, ModeReading:
	default:
		errs = append(errs, fmt.Errorf("watch: mode must be %q or %q, got %q", ModeDates, ModeReading, c.Watch.Mode))
	}

	return errors.Join(errs...)
}

// DatePolicy returns the configured date policy.
func (c *Config) DatePolicy() datecheck.Policy {
	return datecheck.Policy{
		YearPrefix:  c.Dates.YearPrefix,
		CountSuffix: c.Dates.CountSuffix,
	}
}

// ActivitySchema parses the configured activity columns.
func (c *Config) ActivitySchema() (records.ActivitySchema, error) {
	s := records.ActivitySchema{HeaderRow: c.Dates.HeaderRow}
	err := parseRefs(c.Dates.HeaderRow, []refTarget{
		{"student_column", c.Dates.StudentColumn, &s.StudentID},
		{"category_column", c.Dates.CategoryColumn, &s.Category},
		{"text_column", c.Dates.TextColumn, &s.Text},
	})
	return s, err
}

// ReadingSchema parses the configured reading columns.
func (c *Config) ReadingSchema() (records.ReadingSchema, error) {
	s := records.ReadingSchema{HeaderRow: c.Reading.HeaderRow}
	err := parseRefs(c.Reading.HeaderRow, []refTarget{
		{"student_column", c.Reading.StudentColumn, &s.StudentID},
		{"subject_column", c.Reading.SubjectColumn, &s.Subject},
		{"year_column", c.Reading.YearColumn, &s.Year},
		{"grade_column", c.Reading.GradeColumn, &s.Grade},
		{"semester_column", c.Reading.SemesterColumn, &s.Semester},
		{"books_column", c.Reading.BooksColumn, &s.Books},
	})
	return s, err
}

type refTarget struct {
	name  string
	value string
	dst   *sheet.ColumnRef
}

func parseRefs(headerRow int, targets []refTarget) error {
	if headerRow < 1 {
		return fmt.Errorf("header_row must be at least 1, got %d", headerRow)
	}
	for _, t := range targets {
		ref, err := sheet.ParseColumnRef(t.value)
		if err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		*t.dst = ref
	}
	return nil
}

// LoggingConfig converts to the logger's configuration.
func (l LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configFile)
}

// SaveTo writes the configuration as commented TOML.
func (c *Config) SaveTo(configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func ConfigExists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# neischeck configuration
# Generated by: neischeck config init

# ============================================================================
# DATE FORMAT CHECK (자율활동)
# Columns are a header label ("번호") or a column letter ("col:E").
# ============================================================================
[dates]
# Only tokens starting with this year are checked; empty matches any year
year_prefix = %q
# Count suffix of range tokens, as in (2024.03.04.-2024.03.08./5회)
count_suffix = %q
# Rows of this category are checked
category = %q
# Worksheet name; empty means the first sheet
sheet = %q
header_row = %d
student_column = %q
category_column = %q
text_column = %q

# ============================================================================
# READING DUPLICATES (독서활동 상황)
# ============================================================================
[reading]
# Titles at or above this similarity (0-1] are reported as near-duplicates
similarity_threshold = %.2f
# Separator between titles in one cell
delimiter = %q
sheet = %q
header_row = %d
student_column = %q
subject_column = %q
year_column = %q
grade_column = %q
semester_column = %q
books_column = %q

# ============================================================================
# HTTP API (neischeck serve)
# ============================================================================
[server]
addr = %q
max_upload_mb = %d
allowed_origins = %s

# ============================================================================
# INBOX WATCHER (neischeck watch)
# ============================================================================
[watch]
inbox = %q
# "dates" or "reading"
mode = %q

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = %q
# Empty uses ~/.config/neischeck/logs/neischeck.log; "-" disables the file
file = %q
max_size_mb = %d
max_backups = %d
`,
		c.Dates.YearPrefix,
		c.Dates.CountSuffix,
		c.Dates.Category,
		c.Dates.Sheet,
		c.Dates.HeaderRow,
		c.Dates.StudentColumn,
		c.Dates.CategoryColumn,
		c.Dates.TextColumn,
		c.Reading.SimilarityThreshold,
		c.Reading.Delimiter,
		c.Reading.Sheet,
		c.Reading.HeaderRow,
		c.Reading.StudentColumn,
		c.Reading.SubjectColumn,
		c.Reading.YearColumn,
		c.Reading.GradeColumn,
		c.Reading.SemesterColumn,
		c.Reading.BooksColumn,
		c.Server.Addr,
		c.Server.MaxUploadMB,
		formatStringSlice(c.Server.AllowedOrigins),
		c.Watch.Inbox,
		c.Watch.Mode,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
