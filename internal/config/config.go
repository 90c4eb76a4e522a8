// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation errors wrap ErrInvalidConfig; source errors wrap ErrLoadConfig.
package config

import (
	"net"
	"strconv"

	"github.com/okian/warung/internal/adapters/upload"
	"github.com/okian/warung/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Host is the interface to bind; empty means all interfaces.
	Host string `koanf:"host"`

	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// UploadDir is where uploaded images are written and served from.
	UploadDir string `koanf:"upload_dir"`

	// MaxUploadBytes caps a single image upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// AllowedImageTypes is the upload content type allow-list.
	AllowedImageTypes []string `koanf:"allowed_image_types"`

	// PublicBaseURL prefixes returned image URLs, e.g. "https://cdn.example.com".
	// When empty the URL is derived from the incoming request.
	PublicBaseURL string `koanf:"public_base_url"`

	// DefaultImageID is stored on items created without an image.
	DefaultImageID string `koanf:"default_image_id"`

	// SeedMenu preloads the example menu at startup.
	SeedMenu bool `koanf:"seed_menu"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Host:              "",
		Port:              3000,
		UploadDir:         "uploads",
		MaxUploadBytes:    upload.DefaultMaxBytes,
		AllowedImageTypes: append([]string(nil), upload.DefaultAllowedTypes...),
		PublicBaseURL:     "",
		DefaultImageID:    model.DefaultImageID,
		SeedMenu:          true,
	}
}

// Addr returns the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
