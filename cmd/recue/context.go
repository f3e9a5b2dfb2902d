package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/pipeline"
	"recue/internal/services/ffmpeg"
	"recue/internal/services/punctuate"
	"recue/internal/services/whisper"
	"recue/internal/services/ytdlp"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) withStore(fn func(*config.Config, *catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) buildLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) newRunner(cfg *config.Config, store *catalog.Store) *pipeline.Runner {
	logger := c.buildLogger(cfg)
	downloader := ytdlp.NewService(cfg.Download)
	transcriber := whisper.NewService(cfg.Transcribe)
	restorer := punctuate.NewClient(cfg.Punctuate)
	muxer := ffmpeg.NewService(cfg.Embed, cfg.Download.SubtitleLanguages, cfg.Subtitles.VariantPriority)

	fetch := pipeline.NewFetch(cfg, store, downloader, transcriber, logger)
	convert := pipeline.NewConvert(cfg, store, restorer, logger)
	embed := pipeline.NewEmbed(cfg, store, muxer, logger)
	return pipeline.NewRunner(cfg, store, logger, fetch, convert, embed)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
