// config.go: configuration loading and the Settings struct
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/planboard/planboard/internal/errors"
)

// Log rotation types
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Path     string       `yaml:"path"`
	Rotation RotationType `yaml:"rotation"`
	MaxSize  int64        `yaml:"maxsize"`
}

// MainSettings contains general application settings
type MainSettings struct {
	Name string    `yaml:"name"` // instance name used in logs
	Log  LogConfig `yaml:"log"`  // main log file settings
}

// SQLiteSettings configures the SQLite output database
type SQLiteSettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MySQLSettings configures the MySQL output database
type MySQLSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// OutputSettings selects and configures the persistence backend
type OutputSettings struct {
	SQLite SQLiteSettings `yaml:"sqlite"`
	MySQL  MySQLSettings  `yaml:"mysql"`
}

// WebServerSettings configures the HTTP server
type WebServerSettings struct {
	Enabled        bool          `yaml:"enabled"`
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowedorigins"`
	BodyLimit      string        `yaml:"bodylimit"`
	ReadTimeout    time.Duration `yaml:"readtimeout"`
	WriteTimeout   time.Duration `yaml:"writetimeout"`
	Log            LogConfig     `yaml:"log"`
}

// AICacheSettings configures the in-process AI response cache
type AICacheSettings struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// AISettings configures the AI enrichment provider
type AISettings struct {
	Enabled           bool            `yaml:"enabled"`
	Provider          string          `yaml:"provider"` // currently only "gemini"
	APIKey            string          `yaml:"apikey"`
	Model             string          `yaml:"model"`
	Endpoint          string          `yaml:"endpoint"` // override for testing
	Timeout           time.Duration   `yaml:"timeout"`
	Cache             AICacheSettings `yaml:"cache"`
	DailyRequestLimit int             `yaml:"dailyrequestlimit"`
	DailyTokenLimit   int             `yaml:"dailytokenlimit"`
}

// Settings contains all runtime settings for the application
type Settings struct {
	Debug     bool              `yaml:"debug"`
	Main      MainSettings      `yaml:"main"`
	Output    OutputSettings    `yaml:"output"`
	WebServer WebServerSettings `yaml:"webserver"`
	AI        AISettings        `yaml:"ai"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes a default config file to the first config path
// and instructs viper to read it back.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	defaults := defaultSettings()
	out, err := yaml.Marshal(defaults)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal_default_config").
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "write_default_config").
			Context("path", configPath).
			Build()
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// Setting returns the current settings instance, loading it if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	instance := settingsInstance
	settingsMutex.RUnlock()
	if instance != nil {
		return instance
	}

	settings, err := Load()
	if err != nil {
		// No usable configuration, fall back to in-memory defaults
		settings = defaultSettings()
		settingsMutex.Lock()
		settingsInstance = settings
		settingsMutex.Unlock()
	}
	return settings
}

// SetTestSettings replaces the global settings instance. Test use only.
func SetTestSettings(s *Settings) {
	settingsMutex.Lock()
	settingsInstance = s
	settingsMutex.Unlock()
}
