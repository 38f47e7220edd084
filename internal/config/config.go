package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/city/internal/errors"
)

const (
	// JSONFileName is the name of the JSON configuration file.
	JSONFileName = "city.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "city.toml"

	// DefaultRoutesDir is the default routes directory.
	DefaultRoutesDir = "app/routes"

	// DefaultManifest is the default manifest location.
	DefaultManifest = "city.manifest.json"

	// DefaultCacheSize is the default number of cached route matches.
	DefaultCacheSize = 512

	// DefaultMaxBodySize is the default request body limit.
	DefaultMaxBodySize = "1MB"
)

// Environment variables read by LoadEnv.
const (
	EnvRoutesDir     = "CITY_ROUTES_DIR"
	EnvManifest      = "CITY_MANIFEST"
	EnvTrailingSlash = "CITY_TRAILING_SLASH"
	EnvCacheSize     = "CITY_CACHE_SIZE"
	EnvMaxBodySize   = "CITY_MAX_BODY_SIZE"
	EnvS3Region      = "CITY_S3_REGION"
)

// Config represents a city.json or city.toml configuration.
type Config struct {
	// RoutesDir is the directory scanned for route files.
	RoutesDir string `json:"routesDir,omitempty" toml:"routesDir,omitempty"`

	// Manifest is the manifest location: a file path, file:// URI or s3://bucket/key.
	Manifest string `json:"manifest,omitempty" toml:"manifest,omitempty"`

	// TrailingSlash makes page routes canonical with a trailing slash.
	TrailingSlash bool `json:"trailingSlash,omitempty" toml:"trailingSlash,omitempty"`

	// CacheSize is the number of route matches kept in the LRU cache.
	// Zero disables the cache.
	CacheSize int `json:"cacheSize,omitempty" toml:"cacheSize,omitempty"`

	// MaxBodySize is the request body limit in human form (e.g., "1MB").
	MaxBodySize string `json:"maxBodySize,omitempty" toml:"maxBodySize,omitempty"`

	// S3 configures the manifest S3 store.
	S3 S3Config `json:"s3,omitempty" toml:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string

	// baseDir resolves relative paths when there is no config file.
	baseDir string
}

// S3Config contains settings for s3:// manifest locations.
type S3Config struct {
	// Region overrides the AWS region from the shared configuration.
	Region string `json:"region,omitempty" toml:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		RoutesDir:   DefaultRoutesDir,
		Manifest:    DefaultManifest,
		CacheSize:   DefaultCacheSize,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Load reads configuration from the specified directory.
// It looks for city.json first, then city.toml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No " + JSONFileName + " or " + TOMLFileName + " found in " + dir).
		WithSuggestion("Create " + JSONFileName + " or run without a config file to use defaults")
}

// LoadFile reads configuration from the specified file path.
// The format is chosen by extension.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".toml" {
		return nil, errors.New("E123").
			WithDetailf("%q has extension %q", path, ext).
			WithSuggestion("Use a .json or .toml configuration file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No configuration found at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			ce := errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
			var derr *toml.DecodeError
			if stderrors.As(err, &derr) {
				row, col := derr.Position()
				ce.WithLocation(path, row, col)
			}
			return nil, ce
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadEnv loads dir/.env if present, then the configuration in dir (or
// defaults when there is none), then applies CITY_* overrides and validates.
// Variables already set in the process environment win over .env values.
func LoadEnv(dir string) (*Config, error) {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to read " + envFile).
				Wrap(err)
		}
	}

	cfg, err := Load(dir)
	if err != nil {
		if errors.Code(err) != "E141" {
			return nil, err
		}
		cfg = New()
		cfg.baseDir = dir
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from CITY_* environment variables.
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvRoutesDir); ok && v != "" {
		c.RoutesDir = v
	}
	if v, ok := os.LookupEnv(EnvManifest); ok && v != "" {
		c.Manifest = v
	}
	if v, ok := os.LookupEnv(EnvTrailingSlash); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("E122").
				WithDetailf("%s=%q is not a boolean", EnvTrailingSlash, v)
		}
		c.TrailingSlash = b
	}
	if v, ok := os.LookupEnv(EnvCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").
				WithDetailf("%s=%q is not an integer", EnvCacheSize, v)
		}
		c.CacheSize = n
	}
	if v, ok := os.LookupEnv(EnvMaxBodySize); ok && v != "" {
		c.MaxBodySize = v
	}
	if v, ok := os.LookupEnv(EnvS3Region); ok && v != "" {
		c.S3.Region = v
	}
	return nil
}

// SaveTo writes the configuration to the specified path.
// The format is chosen by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return errors.New("E123").WithDetailf("cannot save configuration to %q", path)
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
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
		return c.baseDir
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.RoutesDir == "" {
		c.RoutesDir = DefaultRoutesDir
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = DefaultMaxBodySize
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.RoutesDir == "" {
		return errors.New("E122").WithDetail("routesDir must not be empty")
	}
	if c.CacheSize < 0 {
		return errors.New("E122").
			WithDetailf("cacheSize must be zero or positive, got %d", c.CacheSize)
	}
	if _, err := c.MaxBodyBytes(); err != nil {
		return err
	}
	return nil
}

// MaxBodyBytes returns MaxBodySize in bytes.
func (c *Config) MaxBodyBytes() (int64, error) {
	size := c.MaxBodySize
	if size == "" {
		size = DefaultMaxBodySize
	}
	n, err := units.FromHumanSize(size)
	if err != nil {
		return 0, errors.New("E122").
			WithDetailf("maxBodySize %q is not a size", size).
			WithSuggestion(`Use a value such as "512KB" or "10MB"`).
			Wrap(err)
	}
	if n <= 0 {
		return 0, errors.New("E122").
			WithDetailf("maxBodySize must be positive, got %q", size)
	}
	return n, nil
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	return c.resolve(c.RoutesDir)
}

// RequireRoutesDir returns E121 if the routes directory does not exist.
func (c *Config) RequireRoutesDir() error {
	path := c.RoutesPath()
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return errors.New("E121").
			WithDetail(path + " is not a directory").
			WithSuggestion("Set routesDir in " + JSONFileName + " or " + EnvRoutesDir)
	}
	return nil
}

// ManifestLocation returns the manifest location. Relative file paths are
// resolved against the config directory; URIs are returned unchanged.
func (c *Config) ManifestLocation() string {
	if strings.Contains(c.Manifest, "://") {
		return c.Manifest
	}
	return c.resolve(c.Manifest)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing city.json or city.toml.
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
			return "", errors.New("E141").
				WithDetail("No " + JSONFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
