package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Sections are value structs: cleanenv applies env-default tags only
// to nested structs it can recurse into, and it skips pointer fields.
type AppConfig struct {
	NetworkConfig NetworkConfig `yaml:"network"`
	LoggingConfig LoggingConfig `yaml:"logging"`
	StorageConfig StorageConfig `yaml:"storage"`
}

type NetworkConfig struct {
	Address        string        `yaml:"address" env-default:"127.0.0.1:3223"`
	MaxConnections int           `yaml:"max_connections" env-default:"100"`
	MaxMessageSize string        `yaml:"max_message_size" env-default:"4KB"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"5m"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env-default:"info"`
	Output string `yaml:"output" env-default:"semd.log"`
}

type StorageConfig struct {
	StartSize int `yaml:"start_size" env-default:"1000"`
}

func (c *NetworkConfig) ParseRequestSizeInBytes() (int, error) {
	sizeInBytes, err := ParseSizeInBytes(c.MaxMessageSize)
	if err != nil {
		return 0, err
	}

	return int(sizeInBytes), nil
}

func Load() *AppConfig {
	configPath := os.Getenv("SEMD_CONFIG_PATH")
	if configPath == "" {
		log.Fatal("SEMD_CONFIG_PATH is not set")
	}

	return LoadFromPath(configPath)
}

func LoadFromPath(configPath string) *AppConfig {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg AppConfig

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}

func ParseSizeInBytes(val string) (int64, error) {
	rxp := regexp.MustCompile(`(\d+)(b|kb|mb)`)
	matches := rxp.FindStringSubmatch(strings.ToLower(val))

	if len(matches) != 3 {
		return 0, fmt.Errorf("unknown format of max_message_size in bytes: %s", val)
	}

	size, err := strconv.Atoi(matches[1])
	var sizeInBytes int64
	if err != nil {
		return 0, fmt.Errorf("cannot parse size of max_message_size in bytes: %s", val)
	}

	switch matches[2] {
	case "b":
		sizeInBytes = int64(size)
	case "kb":
		sizeInBytes = int64(size) << 10
	case "mb":
		sizeInBytes = int64(size) << 20
	default:
		return 0, fmt.Errorf("cannot dimension of max_message_size in bytes: %s", val)
	}

	return sizeInBytes, nil
}
