package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"recue/internal/caption"
	"recue/internal/config"
	"recue/internal/pipeline"
	"recue/internal/services/punctuate"
)

// passthroughRestorer returns text unchanged so conversion can run without
// a punctuation endpoint. Only the direct strategy benefits from real
// restoration anyway when the source tokens already carry punctuation.
type passthroughRestorer struct{}

func (passthroughRestorer) Restore(_ context.Context, transcript string) (string, error) {
	return transcript, nil
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var width int
	var noPunctuate bool

	cmd := &cobra.Command{
		Use:   "convert <track.vtt> [track.vtt...]",
		Short: "Rebuild caption tracks from their word timings, one file per strategy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			segCfg := caption.DefaultSegmentConfig()
			if w, ratio := cfg.SegmentConfig(); w > 0 {
				segCfg.MaxLineWidth = w
				segCfg.CommaBreakRatio = ratio
			}
			if width > 0 {
				segCfg.MaxLineWidth = width
			}

			var restorer caption.Restorer = passthroughRestorer{}
			if !noPunctuate {
				restorer = punctuate.NewClient(cfg.Punctuate)
			}

			var firstErr error
			for _, arg := range args {
				trackPath, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				result, err := pipeline.ConvertTrack(cmd.Context(), trackPath, restorer, segCfg)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", trackPath, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				for _, variant := range pipeline.Variants {
					if out, ok := result.Outputs[variant]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: wrote %s\n", trackPath, out)
					} else if ferr, ok := result.Failures[variant]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s failed: %v\n", trackPath, variant, ferr)
					}
				}
			}
			return firstErr
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Override the configured maximum line width")
	cmd.Flags().BoolVar(&noPunctuate, "no-punctuate", false, "Skip punctuation restoration and segment the raw transcript")
	return cmd
}
