package core

import (
	"fmt"
	"os"
	"time"

	"github.com/jo-hoe/artcolor/internal/backend/collection"
	"github.com/jo-hoe/artcolor/internal/backend/gallery"
	"github.com/jo-hoe/artcolor/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort              = 3000
	defaultLogLevel          = "info"
	defaultRequestTimeout    = 30 * time.Second
	defaultMaxDimension      = 128
	defaultMaxImageBytes     = 32 << 20
	defaultMaxPixels         = 40_000_000
	defaultSvgFallbackWidth  = 256
	defaultSvgFallbackHeight = 256
)

type CollectionConfig struct {
	BaseURL        string        `yaml:"baseUrl" validate:"required,url"`
	DepartmentName string        `yaml:"departmentName" validate:"required"`
	ObjectLimit    int           `yaml:"objectLimit" validate:"min=1"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"min=0"`
}

type ImageAnalysisConfig struct {
	MaxDimension      int   `yaml:"maxDimension" validate:"min=1"`
	MaxImageBytes     int64 `yaml:"maxImageBytes" validate:"min=1"`
	MaxPixels         int   `yaml:"maxPixels" validate:"min=1"`
	Workers           int   `yaml:"workers" validate:"min=1,max=64"`
	SvgFallbackWidth  int   `yaml:"svgFallbackWidth" validate:"min=0"`
	SvgFallbackHeight int   `yaml:"svgFallbackHeight" validate:"min=0"`
}

type ServiceConfig struct {
	Port          int                 `yaml:"port" validate:"min=1,max=65535"`
	LogLevel      string              `yaml:"logLevel" validate:"oneof=debug info warn warning error"`
	Collection    CollectionConfig    `yaml:"collection"`
	ImageAnalysis ImageAnalysisConfig `yaml:"imageAnalysis"`
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	config.applyDefaults()
	return config
}

// LoadConfig loads configuration from the specified YAML file.
// Unset values fall back to their defaults before the result is validated.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// Validate checks the configuration against its constraints.
func (c *ServiceConfig) Validate() error {
	return common.ValidateStruct(c)
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	if c.Collection.BaseURL == "" {
		c.Collection.BaseURL = collection.DefaultBaseURL
	}
	if c.Collection.DepartmentName == "" {
		c.Collection.DepartmentName = gallery.DefaultDepartmentName
	}
	if c.Collection.ObjectLimit == 0 {
		c.Collection.ObjectLimit = gallery.DefaultObjectLimit
	}
	if c.Collection.RequestTimeout == 0 {
		c.Collection.RequestTimeout = defaultRequestTimeout
	}

	if c.ImageAnalysis.MaxDimension == 0 {
		c.ImageAnalysis.MaxDimension = defaultMaxDimension
	}
	if c.ImageAnalysis.MaxImageBytes == 0 {
		c.ImageAnalysis.MaxImageBytes = defaultMaxImageBytes
	}
	if c.ImageAnalysis.MaxPixels == 0 {
		c.ImageAnalysis.MaxPixels = defaultMaxPixels
	}
	if c.ImageAnalysis.Workers == 0 {
		c.ImageAnalysis.Workers = 1
	}
	if c.ImageAnalysis.SvgFallbackWidth == 0 {
		c.ImageAnalysis.SvgFallbackWidth = defaultSvgFallbackWidth
	}
	if c.ImageAnalysis.SvgFallbackHeight == 0 {
		c.ImageAnalysis.SvgFallbackHeight = defaultSvgFallbackHeight
	}
}
