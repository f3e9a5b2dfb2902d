package config

import (
	"errors"
	"fmt"
)

var knownVariants = map[string]struct{}{
	"non_iter": {},
	"iter":     {},
	"dir_iter": {},
	"default":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.RateLimitMB <= 0 {
		return errors.New("download.rate_limit_mb must be positive")
	}
	if c.Download.MaxVideoHeight <= 0 {
		return errors.New("download.max_video_height must be positive")
	}
	if len(c.Download.SubtitleLanguages) == 0 {
		return errors.New("download.subtitle_languages must list at least one language")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.MaxLineWidth <= 0 {
		return errors.New("subtitles.max_line_width must be positive")
	}
	if c.Subtitles.CommaBreakRatio <= 0 || c.Subtitles.CommaBreakRatio > 1 {
		return errors.New("subtitles.comma_break_ratio must be in (0, 1]")
	}
	if len(c.Subtitles.VariantPriority) == 0 {
		return errors.New("subtitles.variant_priority must list at least one variant")
	}
	for _, variant := range c.Subtitles.VariantPriority {
		if _, ok := knownVariants[variant]; !ok {
			return fmt.Errorf("subtitles.variant_priority: unknown variant %q", variant)
		}
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	for name, value := range map[string]int{
		"download.timeout_seconds":   c.Download.TimeoutSeconds,
		"punctuate.timeout_seconds":  c.Punctuate.TimeoutSeconds,
		"transcribe.timeout_seconds": c.Transcribe.TimeoutSeconds,
		"embed.timeout_seconds":      c.Embed.TimeoutSeconds,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
