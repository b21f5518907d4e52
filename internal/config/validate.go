package config

import (
	"errors"
	"fmt"

	"cuesplit/internal/cue"
)

// supportedCodecs lists the encoders accepted when extract.reencode is set.
var supportedCodecs = map[string]struct{}{
	"flac": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCue(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCue() error {
	if _, err := cue.LookupCharset(c.Cue.Charset); err != nil {
		return fmt.Errorf("cue.charset: %w", err)
	}
	return nil
}

func (c *Config) validateExtract() error {
	if c.Extract.FFmpegBinary == "" {
		return errors.New("extract.ffmpeg_binary must be set")
	}
	if _, ok := supportedCodecs[c.Extract.Codec]; !ok {
		return fmt.Errorf("extract.codec: unsupported value %q (expected flac)", c.Extract.Codec)
	}
	if c.Extract.TimeoutSeconds < 0 {
		return errors.New("extract.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.SettleSeconds < 0 {
		return errors.New("watch.settle_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
