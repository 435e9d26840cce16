package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/weberc2/blockfs/pkg/device"
	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/log"
	"github.com/weberc2/blockfs/pkg/objectstore"
	. "github.com/weberc2/blockfs/pkg/types"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "BLOCKFS"
	appName      = "blockfs"

	deviceMemory = "memory"
	deviceS3     = "s3"
)

type Config struct {
	Addr          string `envconfig:"ADDR"            yaml:"addr"`
	BlockSize     Byte   `envconfig:"BLOCK_SIZE"      yaml:"blockSize"`
	Blocks        uint64 `envconfig:"BLOCKS"          yaml:"blocks"`
	Descriptors   int    `envconfig:"DESCRIPTORS"     yaml:"descriptors"`
	MaxOpenFiles  int    `envconfig:"MAX_OPEN_FILES"  yaml:"maxOpenFiles"`
	MaxNameLength int    `envconfig:"MAX_NAME_LENGTH" yaml:"maxNameLength"`
	Device        string `envconfig:"DEVICE"          yaml:"device"`
	Bucket        string `envconfig:"BUCKET"          yaml:"bucket"`
	VolumeName    string `envconfig:"VOLUME_NAME"     yaml:"volumeName"`
	Compress      bool   `envconfig:"COMPRESS"        yaml:"compress"`
	LogLevel      string `envconfig:"LOG_LEVEL"       yaml:"logLevel"`
}

func DefaultConfig() Config {
	return Config{
		Addr:          "127.0.0.1:8080",
		BlockSize:     DefaultBlockSize,
		Blocks:        20480,
		Descriptors:   filesystem.DefaultDescriptors,
		MaxOpenFiles:  filesystem.DefaultMaxOpenFiles,
		MaxNameLength: filesystem.DefaultMaxNameLength,
		Device:        deviceMemory,
		VolumeName:    appName,
		LogLevel:      "info",
	}
}

// DefaultConfigFile is used when neither `--config` nor `BLOCKFS_CONFIG_FILE`
// name a config file.
func DefaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// LoadConfig layers the config file (if it exists) and then the environment
// over `DefaultConfig()`.
func LoadConfig(configFile string) (*Config, error) {
	c := DefaultConfig()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Addr == "" {
			return "addr", "ADDR"
		}
		if c.BlockSize < 1 {
			return "blockSize", "BLOCK_SIZE"
		}
		if c.Blocks < 1 {
			return "blocks", "BLOCKS"
		}
		if c.Descriptors < 1 {
			return "descriptors", "DESCRIPTORS"
		}
		if c.MaxOpenFiles < 1 {
			return "maxOpenFiles", "MAX_OPEN_FILES"
		}
		if c.MaxNameLength < 1 {
			return "maxNameLength", "MAX_NAME_LENGTH"
		}
		if c.Device != deviceMemory && c.Device != deviceS3 {
			return "device", "DEVICE"
		}
		if c.Device == deviceS3 && c.Bucket == "" {
			return "bucket", "BUCKET"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing or invalid required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: logLevel: %w", err)
	}
	return nil
}

func (c *Config) Logger() *slog.Logger {
	// validated
	level, _ := log.ParseLevel(c.LogLevel)
	return log.New(os.Stderr, level)
}

func (c *Config) BlockDevice(logger *slog.Logger) (device.Device, error) {
	if c.Device == deviceMemory {
		dev, err := device.NewMemory(c.BlockSize, c.Blocks)
		if err != nil {
			return nil, err
		}
		return dev, nil
	}

	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	var store objectstore.ObjectStore = &objectstore.S3ObjectStore{
		Client: s3.New(sess),
	}
	if c.Compress {
		store = &objectstore.GzipObjectStore{ObjectStore: store}
	}
	dev, err := device.NewObject(&device.ObjectParams{
		Store:      store,
		Bucket:     c.Bucket,
		VolumeName: c.VolumeName,
		BlockSize:  c.BlockSize,
		Blocks:     c.Blocks,
	})
	if err != nil {
		return nil, err
	}
	logger.Info(
		"using object device",
		"bucket", c.Bucket,
		"prefix", dev.Prefix(),
		"compress", c.Compress,
	)
	return dev, nil
}

func (c *Config) FileSystem(logger *slog.Logger) (*filesystem.FileSystem, error) {
	dev, err := c.BlockDevice(logger)
	if err != nil {
		return nil, fmt.Errorf("creating block device: %w", err)
	}
	return filesystem.New(&filesystem.Params{
		Device:        dev,
		Descriptors:   c.Descriptors,
		MaxOpenFiles:  c.MaxOpenFiles,
		MaxNameLength: c.MaxNameLength,
		Logger:        logger,
	})
}
