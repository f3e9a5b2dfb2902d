package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"recue/internal/caption"
	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/services"
	"recue/internal/stage"
	"recue/internal/vtt"
)

// Caption track variants produced by conversion.
const (
	VariantNonIterative    = "non_iter"
	VariantIterative       = "iter"
	VariantDirectIterative = "dir_iter"
)

// Variants lists the conversion variants in output order.
var Variants = []string{VariantNonIterative, VariantIterative, VariantDirectIterative}

// VariantPath derives the output path for a variant from its source track,
// e.g. "video.en.vtt" and "iter" give "video.en.iter.vtt".
func VariantPath(trackPath, variant string) string {
	ext := filepath.Ext(trackPath)
	return strings.TrimSuffix(trackPath, ext) + "." + variant + ext
}

// ConvertResult reports the per-variant outcome of one track conversion.
type ConvertResult struct {
	Outputs  map[string]string
	Failures map[string]error
	// IterativeDropped counts display lines the iterative variant omitted
	// because no token timing remained for them.
	IterativeDropped int
}

// ConvertTrack rebuilds the caption track at trackPath as one output track
// per variant, written next to the source. Variants fail independently: a
// restoration or alignment error on one leaves the others' outputs intact.
// An error is returned only when the source is unusable or every variant
// failed.
func ConvertTrack(ctx context.Context, trackPath string, restorer caption.Restorer, cfg caption.SegmentConfig) (ConvertResult, error) {
	result := ConvertResult{
		Outputs:  make(map[string]string, len(Variants)),
		Failures: make(map[string]error, len(Variants)),
	}

	header, err := vtt.ReadHeader(trackPath)
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}
	groups, err := vtt.ReadFileGroups(trackPath)
	if err != nil {
		return result, fmt.Errorf("read track: %w", err)
	}

	blocks, tokens := caption.ExtractBlocks(groups)
	tokens = caption.Dedupe(tokens)
	if len(tokens) == 0 {
		return result, fmt.Errorf("no timed tokens in %s", filepath.Base(trackPath))
	}

	write := func(variant string, cues []caption.TimedLine) {
		out := VariantPath(trackPath, variant)
		if err := vtt.WriteTrack(out, header, cues); err != nil {
			result.Failures[variant] = err
			return
		}
		result.Outputs[variant] = out
	}

	// The direct strategy works from the raw blocks and needs no restored
	// punctuation, so it proceeds even when the restorer is unavailable.
	write(VariantDirectIterative, caption.AlignDirectIterative(blocks))

	lines, err := caption.SegmentLines(ctx, tokens, restorer, cfg)
	if err != nil {
		err = fmt.Errorf("restore punctuation: %w", err)
		result.Failures[VariantNonIterative] = err
		result.Failures[VariantIterative] = err
	} else {
		if cues, alignErr := caption.AlignNonIterative(lines, tokens); alignErr != nil {
			result.Failures[VariantNonIterative] = alignErr
		} else {
			write(VariantNonIterative, cues)
		}
		cues, dropped := caption.AlignIterative(lines, tokens)
		result.IterativeDropped = dropped
		write(VariantIterative, cues)
	}

	if len(result.Outputs) == 0 {
		for _, variant := range Variants {
			if ferr := result.Failures[variant]; ferr != nil {
				return result, fmt.Errorf("all variants failed: %w", ferr)
			}
		}
		return result, fmt.Errorf("all variants failed")
	}
	return result, nil
}

// Convert is the pipeline stage that rebuilds an item's caption track.
type Convert struct {
	cfg      *config.Config
	store    *catalog.Store
	restorer caption.Restorer
	logger   *slog.Logger
}

// NewConvert builds the conversion stage.
func NewConvert(cfg *config.Config, store *catalog.Store, restorer caption.Restorer, logger *slog.Logger) *Convert {
	return &Convert{
		cfg:      cfg,
		store:    store,
		restorer: restorer,
		logger:   logging.NewComponentLogger(logger, "convert"),
	}
}

func (c *Convert) segmentConfig() caption.SegmentConfig {
	cfg := caption.DefaultSegmentConfig()
	if width, ratio := c.cfg.SegmentConfig(); width > 0 {
		cfg.MaxLineWidth = width
		cfg.CommaBreakRatio = ratio
	}
	return cfg
}

// Prepare verifies the source track recorded on the item exists.
func (c *Convert) Prepare(ctx context.Context, item *catalog.Item) error {
	return stage.RequireFile("convert", "source track", item.SourceTrack)
}

// Execute converts the item's source track and records the produced outputs.
func (c *Convert) Execute(ctx context.Context, item *catalog.Item) error {
	result, err := ConvertTrack(ctx, item.SourceTrack, c.restorer, c.segmentConfig())
	if err != nil {
		return services.Wrap(services.ErrTransient, "convert", "convert track", item.Label(), err)
	}
	for _, variant := range Variants {
		if ferr := result.Failures[variant]; ferr != nil {
			c.logger.Warn("variant failed",
				logging.String("item", item.Label()),
				logging.String(logging.FieldVariant, variant),
				logging.Error(ferr))
		}
	}
	if result.IterativeDropped > 0 {
		c.logger.Warn("iterative variant truncated",
			logging.String("item", item.Label()),
			logging.Int("dropped_lines", result.IterativeDropped))
	}

	item.OutputTracks = item.OutputTracks[:0]
	for _, variant := range Variants {
		if out, ok := result.Outputs[variant]; ok {
			item.OutputTracks = append(item.OutputTracks, out)
			c.logger.Info("track written",
				logging.String("item", item.Label()),
				logging.String(logging.FieldVariant, variant),
				logging.String(logging.FieldTrack, filepath.Base(out)))
		}
	}
	return nil
}

// HealthCheck pings the punctuation restorer when it supports one.
func (c *Convert) HealthCheck(ctx context.Context) stage.Health {
	type pinger interface {
		HealthCheck(context.Context) error
	}
	if hc, ok := c.restorer.(pinger); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return stage.Unhealthy("convert", err.Error())
		}
	}
	return stage.Healthy("convert")
}
