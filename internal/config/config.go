package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"lmsops/pkg/util"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"gopkg.in/yaml.v3"
)

// MongoDB configuration
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Admin account written by create-admin
type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Values back-filled into a promoted teacher's empty profile fields
type TeacherDefaultsConfig struct {
	ProfessionalTitle string `yaml:"professional_title"`
	Organization      string `yaml:"organization"`
	Website           string `yaml:"website"`
	LinkedIn          string `yaml:"linkedin"`
	Qualifications    string `yaml:"qualifications"`
}

// ProbeRequest is one request issued by the probe
type ProbeRequest struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`
	Body   string `yaml:"body"`
}

// HTTP probe configuration
type ProbeConfig struct {
	BaseURL      string         `yaml:"base_url"`
	Token        string         `yaml:"token"`
	Timeout      time.Duration  `yaml:"timeout"`
	MaxBodyBytes int            `yaml:"max_body"`
	Requests     []ProbeRequest `yaml:"requests"`
}

// Config holds all tool configuration
type Config struct {
	Mongo           MongoConfig           `yaml:"mongo"`
	Admin           AdminConfig           `yaml:"admin"`
	SeedEmails      []string              `yaml:"seed_emails"`
	TeacherDefaults TeacherDefaultsConfig `yaml:"teacher_defaults"`
	Probe           ProbeConfig           `yaml:"probe"`
	OpTimeout       time.Duration         `yaml:"op_timeout"`
	LogLevel        string                `yaml:"log_level"`
}

// Default configuration values
const (
	DefaultMongoURI      = "mongodb://localhost:27017/lms"
	DefaultMongoDB       = "lms"
	DefaultAdminName     = "Admin"
	DefaultAdminEmail    = "admin@lms.com"
	DefaultAdminPassword = "admin123"
	DefaultSeedEmails    = "admin@lms.com,teacher@lms.com,student@lms.com"
	// Teacher profile defaults
	DefaultTeacherTitle          = "Instructor"
	DefaultTeacherOrganization   = "LMS Academy"
	DefaultTeacherWebsite        = "https://lms.example.com"
	DefaultTeacherLinkedIn       = "https://www.linkedin.com"
	DefaultTeacherQualifications = "Certified Instructor"
	// Probe defaults
	DefaultProbeBaseURL  = "http://localhost:5000"
	DefaultProbeTimeout  = 10 * time.Second
	DefaultProbeMaxBody  = 200
	DefaultOpTimeout     = 30 * time.Second
	DefaultLogLevel      = "info"
	DefaultEnvFile       = ".env"
	DefaultLatestLimit   = 5
	MaxLatestLimit       = 100
	DefaultProbeTestBody = "{}"
)

// DefaultProbeRequests is the request sequence used when none is configured.
func DefaultProbeRequests() []ProbeRequest {
	return []ProbeRequest{
		{Method: "GET", Path: "/"},
		{Method: "GET", Path: "/api/notifications"},
		{Method: "POST", Path: "/api/notifications/test", Body: DefaultProbeTestBody},
		{Method: "GET", Path: "/api/auth"},
		{Method: "GET", Path: "/api/verify-notifications"},
		{Method: "GET", Path: "/api/notifications/ping"},
	}
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI: DefaultMongoURI,
		},
		Admin: AdminConfig{
			Name:     DefaultAdminName,
			Email:    DefaultAdminEmail,
			Password: DefaultAdminPassword,
		},
		SeedEmails: splitList(DefaultSeedEmails),
		TeacherDefaults: TeacherDefaultsConfig{
			ProfessionalTitle: DefaultTeacherTitle,
			Organization:      DefaultTeacherOrganization,
			Website:           DefaultTeacherWebsite,
			LinkedIn:          DefaultTeacherLinkedIn,
			Qualifications:    DefaultTeacherQualifications,
		},
		Probe: ProbeConfig{
			BaseURL:      DefaultProbeBaseURL,
			Timeout:      DefaultProbeTimeout,
			MaxBodyBytes: DefaultProbeMaxBody,
			Requests:     DefaultProbeRequests(),
		},
		OpTimeout: DefaultOpTimeout,
		LogLevel:  DefaultLogLevel,
	}
}

// LoadOptions controls which files Load reads.
type LoadOptions struct {
	ConfigFile string // YAML, optional
	EnvFile    string // dotenv, ignored when missing
}

// Load builds a Config by applying defaults, then the YAML file, then the
// dotenv file and finally the process environment. The result is validated.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Defaults()

	if opts.ConfigFile != "" {
		if err := cfg.loadYAML(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if opts.EnvFile != "" {
		// godotenv never overrides variables already present in the environment
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	cfg.applyEnv()
	cfg.resolveDatabase()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DB", c.Mongo.Database)

	c.Admin.Name = getEnv("ADMIN_NAME", c.Admin.Name)
	c.Admin.Email = getEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
	c.SeedEmails = getEnvList("SEED_EMAILS", c.SeedEmails)

	c.TeacherDefaults.ProfessionalTitle = getEnv("TEACHER_DEFAULT_TITLE", c.TeacherDefaults.ProfessionalTitle)
	c.TeacherDefaults.Organization = getEnv("TEACHER_DEFAULT_ORG", c.TeacherDefaults.Organization)
	c.TeacherDefaults.Website = getEnv("TEACHER_DEFAULT_WEBSITE", c.TeacherDefaults.Website)
	c.TeacherDefaults.LinkedIn = getEnv("TEACHER_DEFAULT_LINKEDIN", c.TeacherDefaults.LinkedIn)
	c.TeacherDefaults.Qualifications = getEnv("TEACHER_DEFAULT_QUALIFICATIONS", c.TeacherDefaults.Qualifications)

	c.Probe.BaseURL = getEnv("PROBE_BASE_URL", c.Probe.BaseURL)
	c.Probe.Token = getEnv("PROBE_TOKEN", c.Probe.Token)
	c.Probe.Timeout = getEnvDuration("PROBE_TIMEOUT", c.Probe.Timeout)
	c.Probe.MaxBodyBytes = getEnvInt("PROBE_MAX_BODY", c.Probe.MaxBodyBytes)

	c.OpTimeout = getEnvDuration("OP_TIMEOUT", c.OpTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// resolveDatabase falls back to the database named in the URI, as the LMS does.
func (c *Config) resolveDatabase() {
	if c.Mongo.Database != "" {
		return
	}
	c.Mongo.Database = DefaultMongoDB
	if cs, err := connstring.Parse(c.Mongo.URI); err == nil && cs.Database != "" {
		c.Mongo.Database = cs.Database
	}
}

// Validate reports configuration that no operation could work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mongo.URI) == "" {
		return errors.New("mongo uri is required")
	}
	c.Admin.Email = util.NormalizeEmail(c.Admin.Email)
	if err := util.ValidateEmail(c.Admin.Email); err != nil {
		return fmt.Errorf("admin email: %w", err)
	}
	if c.Admin.Password == "" {
		return errors.New("admin password is required")
	}
	for i, email := range c.SeedEmails {
		c.SeedEmails[i] = util.NormalizeEmail(email)
		if err := util.ValidateEmail(c.SeedEmails[i]); err != nil {
			return fmt.Errorf("seed emails: %w", err)
		}
	}
	if err := c.TeacherDefaults.validate(); err != nil {
		return err
	}
	if c.Probe.MaxBodyBytes <= 0 {
		c.Probe.MaxBodyBytes = DefaultProbeMaxBody
	}
	if c.Probe.Timeout <= 0 {
		c.Probe.Timeout = DefaultProbeTimeout
	}
	if len(c.Probe.Requests) == 0 {
		c.Probe.Requests = DefaultProbeRequests()
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = DefaultOpTimeout
	}
	return nil
}

// validate trims every default and rejects blank ones, since set-role-teacher
// writes them into a promoted user's profile.
func (t *TeacherDefaultsConfig) validate() error {
	for _, f := range []struct {
		key   string
		value *string
	}{
		{"professional_title", &t.ProfessionalTitle},
		{"organization", &t.Organization},
		{"website", &t.Website},
		{"linkedin", &t.LinkedIn},
		{"qualifications", &t.Qualifications},
	} {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return fmt.Errorf("teacher_defaults.%s must not be empty", f.key)
		}
	}
	return nil
}

// UsesDefaultAdminPassword reports whether the built-in password is in effect.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Admin.Password == DefaultAdminPassword
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare integers are seconds
		if sec, err := strconv.Atoi(value); err == nil {
			return time.Duration(sec) * time.Second
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return splitList(value)
	}
	return defaultValue
}

func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
