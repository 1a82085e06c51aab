package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/statekit-go/statekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statekit.json"

	// DefaultPort is the default devtools server port.
	DefaultPort = 7070

	// DefaultHost is the default devtools server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus metric namespace.
	DefaultNamespace = "statekit"

	// DefaultProfile is the default benchmark profile.
	DefaultProfile = "standard"
)

// Config represents the complete statekit.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Devtools contains devtools server configuration.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// Metrics contains Prometheus metric configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Bench contains default benchmark parameters.
	Bench BenchConfig `json:"bench,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevtoolsConfig contains devtools server settings.
type DevtoolsConfig struct {
	// Port is the port to run the devtools server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// MetricsConfig contains Prometheus metric settings.
type MetricsConfig struct {
	// Namespace is the metric namespace prefix.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metric subsystem, between namespace and name.
	Subsystem string `json:"subsystem,omitempty"`
}

// BenchConfig contains default benchmark parameters.
type BenchConfig struct {
	// Profile is the built-in profile name (fast, standard, stress).
	Profile string `json:"profile,omitempty"`

	// ProfileFile is a path to a TOML profile file, overriding Profile.
	ProfileFile string `json:"profileFile,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Devtools: DevtoolsConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Bench: BenchConfig{
			Profile: DefaultProfile,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for statekit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No statekit.json found in " + filepath.Dir(path)).
				WithSuggestion("Create statekit.json or pass flags on the command line")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E103").
			WithDetail("Failed to parse statekit.json: " + err.Error()).
			WithSuggestion("Check that statekit.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E102").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Devtools.Port == 0 {
		c.Devtools.Port = DefaultPort
	}
	if c.Devtools.Host == "" {
		c.Devtools.Host = DefaultHost
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Bench.Profile == "" {
		c.Bench.Profile = DefaultProfile
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Devtools.Port < 0 || c.Devtools.Port > 65535 {
		return errors.New("E104").
			WithDetail("Devtools port must be between 0 and 65535")
	}
	return nil
}

// DevtoolsAddress returns the address string for the devtools server.
func (c *Config) DevtoolsAddress() string {
	return c.Devtools.Host + ":" + strconv.Itoa(c.Devtools.Port)
}

// DevtoolsURL returns the full URL for the devtools server.
func (c *Config) DevtoolsURL() string {
	return "http://" + c.DevtoolsAddress()
}

// BenchProfilePath returns the absolute path to the bench profile file,
// or "" if none is configured.
func (c *Config) BenchProfilePath() string {
	if c.Bench.ProfileFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Bench.ProfileFile) {
		return c.Bench.ProfileFile
	}
	return filepath.Join(c.Dir(), c.Bench.ProfileFile)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing statekit.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E101").
				WithDetail("No statekit.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory,
// walking up to find the project root.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
