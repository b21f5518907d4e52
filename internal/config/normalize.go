package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCue()
	c.normalizeExtract()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCue() {
	c.Cue.Charset = strings.ToLower(strings.TrimSpace(c.Cue.Charset))
	if c.Cue.Charset == "" {
		c.Cue.Charset = defaultCharset
	}
}

func (c *Config) normalizeExtract() {
	if value, ok := os.LookupEnv("CUESPLIT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Extract.FFmpegBinary = value
	}
	if value, ok := os.LookupEnv("CUESPLIT_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Extract.FFprobeBinary = value
	}
	c.Extract.FFmpegBinary = strings.TrimSpace(c.Extract.FFmpegBinary)
	if c.Extract.FFmpegBinary == "" {
		c.Extract.FFmpegBinary = defaultFFmpegBinary
	}
	c.Extract.FFprobeBinary = strings.TrimSpace(c.Extract.FFprobeBinary)
	if c.Extract.FFprobeBinary == "" {
		c.Extract.FFprobeBinary = defaultFFprobeBinary
	}
	c.Extract.Codec = strings.ToLower(strings.TrimSpace(c.Extract.Codec))
	if c.Extract.Codec == "" {
		c.Extract.Codec = defaultCodec
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
