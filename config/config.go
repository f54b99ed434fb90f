package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported values for DataSource.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Supported values for OutputFormat.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir      string `envconfig:"DATA_DIR" default:"./csv"`
	ListingsFile string `envconfig:"LISTINGS_FILE" default:"listings.csv"`
	ContactsFile string `envconfig:"CONTACTS_FILE" default:"contacts.csv"`
	DataSource   string `envconfig:"DATA_SOURCE" default:"csv" validate:"oneof=csv postgres"`

	Timezone         string  `envconfig:"REPORT_TIMEZONE" default:"UTC" validate:"timezone"`
	CutoffPercentage float64 `envconfig:"CUTOFF_PERCENTAGE" default:"30" validate:"gt=0,lte=100"`
	TopN             int     `envconfig:"TOP_N" default:"5" validate:"gte=1"`

	OutputFormat string `envconfig:"OUTPUT_FORMAT" default:"text" validate:"oneof=text csv xlsx pdf"`
	OutputPath   string `envconfig:"OUTPUT_PATH" default:"./output"`

	MaxConcurrency int    `envconfig:"MAX_CONCURRENCY" default:"4" validate:"gte=1"`
	MaxRetries     int    `envconfig:"MAX_RETRIES" default:"3" validate:"gte=1"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"insights"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"insights"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"listings_db"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	ChromeBin string `envconfig:"CHROME_BIN"`
}

// Load reads the .env file, if any, and returns a populated and validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their env variable name so errors point at
// what the operator has to change.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("envconfig")
	})
	return v
}

// Validate normalizes enumerations and checks value ranges.
func (c *Config) Validate() error {
	c.DataSource = strings.ToLower(strings.TrimSpace(c.DataSource))
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v fails %q", fe.Field(), fe.Value(), fe.Tag()+paramSuffix(fe.Param())))
	}
	return fmt.Errorf("config: invalid settings: %s", strings.Join(msgs, "; "))
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// Location resolves the configured report time zone. Month keys are always
// derived in this zone, never in the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: REPORT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ListingsPath is the full path of the listings file.
func (c *Config) ListingsPath() string {
	return filepath.Join(c.DataDir, c.ListingsFile)
}

// ContactsPath is the full path of the contacts file.
func (c *Config) ContactsPath() string {
	return filepath.Join(c.DataDir, c.ContactsFile)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
