package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fenilsonani/file-organizer/internal/category"
	"github.com/fenilsonani/file-organizer/pkg/utils"
	"github.com/ncruces/go-strftime"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	FileTypes             category.Mapping `yaml:"file_types" json:"file_types"`
	DefaultOrganizeMethod string           `yaml:"default_organize_method" json:"default_organize_method"`
	DateFormat            string           `yaml:"date_format" json:"date_format"`
	DuplicatesFolder      string           `yaml:"duplicates_folder" json:"duplicates_folder"`
	HashAlgorithm         string           `yaml:"hash_algorithm" json:"hash_algorithm"`
	LogLevel              string           `yaml:"log_level" json:"log_level"`
	LogFormat             string           `yaml:"log_format" json:"log_format"`
}

// tomlDocument is the TOML shape of Config. TOML tables decode into maps, so
// category order falls back to alphabetical.
type tomlDocument struct {
	FileTypes             map[string][]string `toml:"file_types"`
	DefaultOrganizeMethod string              `toml:"default_organize_method"`
	DateFormat            string              `toml:"date_format"`
	DuplicatesFolder      string              `toml:"duplicates_folder"`
	HashAlgorithm         string              `toml:"hash_algorithm"`
	LogLevel              string              `toml:"log_level"`
	LogFormat             string              `toml:"log_format"`
}

// OrganizeMethods lists the accepted values of default_organize_method
var OrganizeMethods = []string{"type", "date", "duplicates"}

// Load loads configuration from a file. Keys present in the file replace the
// defaults; file_types is replaced as a whole.
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data, formatOf(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads configPath and falls back to the built-in defaults on any
// error, logging why.
func LoadOrDefault(configPath string, logger *slog.Logger) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("using default configuration", "config", configPath, "error", err)
		}
		return GetDefault()
	}
	return cfg
}

// Format is a config file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes data over the defaults. JSON goes through the YAML decoder,
// which keeps the key order of file_types.
func Parse(data []byte, format Format) (*Config, error) {
	config := GetDefault()

	switch format {
	case FormatTOML:
		doc := config.toTOML()
		doc.FileTypes = nil
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		config.fromTOML(doc)
	case FormatJSON:
		deduped, err := lastKeyWins(data)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(deduped, config); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.FileTypes.Normalize()
	return config, nil
}

// lastKeyWins rewrites JSON objects so a repeated key keeps its last value at the
// position of its first occurrence. The YAML decoder rejects repeated keys.
func lastKeyWins(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var keys []string
	values := make(map[string][]byte)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		value, err := lastKeyWins(raw)
		if err != nil {
			return nil, err
		}

		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Save saves configuration to a file, encoded according to its extension
func Save(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch formatOf(configPath) {
	case FormatTOML:
		data, err = toml.Marshal(config.toTOML())
	case FormatYAML:
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) toTOML() tomlDocument {
	return tomlDocument{
		FileTypes:             c.FileTypes.ToMap(),
		DefaultOrganizeMethod: c.DefaultOrganizeMethod,
		DateFormat:            c.DateFormat,
		DuplicatesFolder:      c.DuplicatesFolder,
		HashAlgorithm:         c.HashAlgorithm,
		LogLevel:              c.LogLevel,
		LogFormat:             c.LogFormat,
	}
}

func (c *Config) fromTOML(doc tomlDocument) {
	if doc.FileTypes != nil {
		c.FileTypes = category.FromMap(doc.FileTypes)
	}
	c.DefaultOrganizeMethod = doc.DefaultOrganizeMethod
	c.DateFormat = doc.DateFormat
	c.DuplicatesFolder = doc.DuplicatesFolder
	c.HashAlgorithm = doc.HashAlgorithm
	c.LogLevel = doc.LogLevel
	c.LogFormat = doc.LogFormat
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cat := range c.FileTypes {
		if err := validateFolderName(cat.Name); err != nil {
			return fmt.Errorf("file_types: invalid category %q: %w", cat.Name, err)
		}
		for _, ext := range cat.Extensions {
			if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
				return fmt.Errorf("file_types.%s: invalid extension %q", cat.Name, ext)
			}
		}
	}

	if !contains(OrganizeMethods, c.DefaultOrganizeMethod) {
		return fmt.Errorf("default_organize_method must be one of %s, got %q",
			strings.Join(OrganizeMethods, ", "), c.DefaultOrganizeMethod)
	}

	if err := validateDateFormat(c.DateFormat); err != nil {
		return fmt.Errorf("date_format %q: %w", c.DateFormat, err)
	}

	if err := validateFolderName(c.DuplicatesFolder); err != nil {
		return fmt.Errorf("duplicates_folder %q: %w", c.DuplicatesFolder, err)
	}

	if _, err := utils.ParseAlgorithm(c.HashAlgorithm); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// AddFileType adds ext to category, creating the category if needed. It reports
// false if the extension was already there.
func (c *Config) AddFileType(categoryName, ext string) (bool, error) {
	if err := validateFolderName(categoryName); err != nil {
		return false, fmt.Errorf("invalid category %q: %w", categoryName, err)
	}
	if category.NormalizeExtension(ext) == "" {
		return false, fmt.Errorf("invalid extension %q", ext)
	}
	return c.FileTypes.Add(categoryName, ext), nil
}

func validateFolderName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("must not be %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("must be a single folder name")
	}
	return nil
}

// validateDateFormat rejects layouts that produce an empty bucket or one that
// escapes the root directory.
func validateDateFormat(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("must not be empty")
	}
	sample := strftime.Format(layout, time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))
	clean := filepath.Clean(sample)
	if sample == "" || clean == "." || filepath.IsAbs(sample) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("produces an invalid folder name %q", sample)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".file_organizer")
	return filepath.Join(configDir, "config.json"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		defaultConfig := GetDefault()
		if err := Save(defaultConfig, configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
