// Package conf handles the loading, validation and access of application settings.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Analysis constants shared by the whole pipeline. The heuristic scorer
// thresholds are calibrated against these exact values, do not tune them
// independently.
const (
	// SampleRate is the target sample rate all input audio is resampled to
	SampleRate = 16000

	// FFTSize is the STFT window length in samples (2^14)
	FFTSize = 16384

	// HopSize is the STFT hop length in samples
	HopSize = FFTSize / 4

	// MinFreq and MaxFreq bound the fakeprint band in Hz, exclusive
	MinFreq = 5000.0
	MaxFreq = 16000.0

	// HighFreqCutoff is the lower bound in Hz for the high-frequency
	// energy term, exclusive
	HighFreqCutoff = 8000.0

	// HullWindow is the sliding window width of the lower hull extractor
	HullWindow = 10

	// NoiseFloorMinDB clips the interpolated noise floor from below
	NoiseFloorMinDB = -45.0

	// ResidualMaxDB clips the spectral residual before normalization
	ResidualMaxDB = 5.0

	// MaxDuration is the maximum analyzed audio duration in seconds,
	// applied at decode time
	MaxDuration = 180
)

// LogConfig defines logging configuration for a service log file
type LogConfig struct {
	Enabled bool   `yaml:"enabled"` // true to enable file logging
	Path    string `yaml:"path"`    // path to log file
	MaxSize int64  `yaml:"maxsize"` // max log file size in bytes before rotation
}

// MainSettings contains general application settings
type MainSettings struct {
	Name string    `yaml:"name"` // name of this node
	Log  LogConfig `yaml:"log"`  // main log configuration
}

// DetectorSettings contains settings for the fakeprint detector
type DetectorSettings struct {
	ModelPath       string `yaml:"modelpath"`       // path to trained logistic model weights
	UseTrainedModel bool   `yaml:"usetrainedmodel"` // attempt to load the trained model at startup
}

// InputSettings holds the path to the file or directory to analyze
type InputSettings struct {
	Path      string `yaml:"path"`      // path to input file or directory
	Recursive bool   `yaml:"recursive"` // true for recursive directory analysis
}

// SQLiteSettings contains settings for the SQLite database
type SQLiteSettings struct {
	Enabled bool   `yaml:"enabled"` // true to persist analysis results
	Path    string `yaml:"path"`    // path to the SQLite database file
}

// OutputSettings contains result output settings
type OutputSettings struct {
	SQLite SQLiteSettings `yaml:"sqlite"`
}

// WebServerSettings contains settings for the HTTP API server
type WebServerSettings struct {
	Enabled         bool      `yaml:"enabled"`         // true to enable the API server
	Host            string    `yaml:"host"`            // address to bind to
	Port            string    `yaml:"port"`            // port to listen on
	MaxUploadSizeMB int       `yaml:"maxuploadsizemb"` // maximum upload size in megabytes
	UploadPath      string    `yaml:"uploadpath"`      // directory for temporary uploads
	AllowedTypes    []string  `yaml:"allowedtypes"`    // allowed audio file extensions
	Log             LogConfig `yaml:"log"`             // web server log configuration
}

// Settings is the root configuration structure
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug output

	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main      MainSettings      `yaml:"main"`
	Detector  DetectorSettings  `yaml:"detector"`
	Input     InputSettings     `yaml:"input"`
	Output    OutputSettings    `yaml:"output"`
	WebServer WebServerSettings `yaml:"webserver"`
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance and stores it as the package singleton.
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

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file on disk, defaults are enough to run with
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveYAMLConfig writes the given settings to configPath atomically.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary config file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error closing temporary config file: %w", err)
	}

	if err := os.Rename(tempName, configPath); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
