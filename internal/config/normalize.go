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
	c.normalizeDownload()
	c.normalizeSubtitles()
	c.normalizePunctuate()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	cleaned := make([]string, 0, len(c.Download.SubtitleLanguages))
	for _, lang := range c.Download.SubtitleLanguages {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			cleaned = append(cleaned, lang)
		}
	}
	c.Download.SubtitleLanguages = cleaned
}

func (c *Config) normalizeSubtitles() {
	cleaned := make([]string, 0, len(c.Subtitles.VariantPriority))
	for _, variant := range c.Subtitles.VariantPriority {
		if variant = strings.ToLower(strings.TrimSpace(variant)); variant != "" {
			cleaned = append(cleaned, variant)
		}
	}
	c.Subtitles.VariantPriority = cleaned
}

func (c *Config) normalizePunctuate() {
	if c.Punctuate.APIKey == "" {
		if value, ok := os.LookupEnv("RECUE_PUNCTUATE_API_KEY"); ok {
			c.Punctuate.APIKey = strings.TrimSpace(value)
		}
	}
	c.Punctuate.BaseURL = strings.TrimSpace(c.Punctuate.BaseURL)
	if c.Punctuate.BaseURL == "" {
		c.Punctuate.BaseURL = defaultPunctuateBaseURL
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
