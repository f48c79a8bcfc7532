package scan

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/detect"
)

// Limits bounds how much of a repository a scan admits. A zero or negative
// field takes its DefaultLimits value.
type Limits struct {
	// MaxFiles caps the number of admitted paths.
	MaxFiles int
	// MaxFileSize is the largest file, in bytes, whose content is processed.
	MaxFileSize int64
	// MaxContentFetches caps raw-content downloads in a remote scan.
	MaxContentFetches int
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:          100,
		MaxFileSize:       100 * 1024,
		MaxContentFetches: 50,
	}
}

// Config is injected into both scanners.
type Config struct {
	Limits Limits
	Tables *classify.Tables
	// ReadTimeout bounds each local file read. Zero means no timeout.
	ReadTimeout time.Duration
	Logger      *zerolog.Logger
}

// DefaultConfig returns production limits and tables with a no-op logger.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultLimits()
	if c.Limits.MaxFiles <= 0 {
		c.Limits.MaxFiles = d.MaxFiles
	}
	if c.Limits.MaxFileSize <= 0 {
		c.Limits.MaxFileSize = d.MaxFileSize
	}
	if c.Limits.MaxContentFetches <= 0 {
		c.Limits.MaxContentFetches = d.MaxContentFetches
	}
	if c.Tables == nil {
		c.Tables = classify.Default()
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// detectors bundles the two detectors built from the same tables.
type detectors struct {
	patterns   *detect.PatternDetector
	frameworks *detect.FrameworkDetector
}

func newDetectors(t *classify.Tables) detectors {
	return detectors{
		patterns:   detect.NewPatternDetector(t),
		frameworks: detect.NewFrameworkDetector(t),
	}
}
