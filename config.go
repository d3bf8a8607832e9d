package main

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Engine  EngineConfig  `yaml:"engine"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	S3      S3Config      `yaml:"s3"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Uploads is the directory raw and cleaned dataset blobs live in
	Uploads string `yaml:"uploads"`
	// Ledger is the path of the JSON document holding upload metadata
	Ledger string `yaml:"ledger"`
}

type EngineConfig struct {
	// PythonBin is the interpreter used to launch engine scripts
	PythonBin string `yaml:"python_bin"`
	// Scripts is the directory holding the engine's entry points
	Scripts string `yaml:"scripts"`
	// TimeoutSeconds bounds one engine invocation; the process is
	// killed on expiry
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxConcurrent caps in-flight engine processes
	MaxConcurrent int `yaml:"max_concurrent"`
}

// MirrorConfig enables the best-effort secondary record store when
// Database is non-empty
type MirrorConfig struct {
	Database string `yaml:"database"`
}

// S3Config enables best-effort raw blob archival when Enabled is true
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
}

func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
	} else if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
		config = defaultConfig()
	}

	// Environment overrides for deployment-specific settings
	if bin := os.Getenv("REEL_PYTHON_BIN"); bin != "" {
		config.Engine.PythonBin = bin
	}
	if scripts := os.Getenv("REEL_ENGINE_SCRIPTS"); scripts != "" {
		config.Engine.Scripts = scripts
	}
	if port := os.Getenv("REEL_PORT"); port != "" {
		config.Server.Port = port
	}

	return config
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "5000",
		},
		Storage: StorageConfig{
			Uploads: "./uploads",
			Ledger:  "./storage/uploads.json",
		},
		Engine: EngineConfig{
			PythonBin:      "python3",
			Scripts:        "./python-service",
			TimeoutSeconds: 120,
			MaxConcurrent:  4,
		},
	}
}

// EngineTimeout returns the per-invocation wall-clock budget
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds) * time.Second
}
