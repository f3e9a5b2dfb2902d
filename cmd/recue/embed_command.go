package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"recue/internal/config"
	"recue/internal/language"
	"recue/internal/services/ffmpeg"
)

func newEmbedCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed <media-file> [track.vtt...]",
		Short: "Mux caption tracks into the media container in priority order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mediaPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			tracks := make([]string, 0, len(args)-1)
			for _, arg := range args[1:] {
				track, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				tracks = append(tracks, track)
			}
			if len(tracks) == 0 {
				base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
				found, err := filepath.Glob(base + ".*.vtt")
				if err != nil {
					return err
				}
				tracks = found
			}
			if len(tracks) == 0 {
				return fmt.Errorf("no caption tracks found beside %s", mediaPath)
			}

			muxer := ffmpeg.NewService(cfg.Embed, cfg.Download.SubtitleLanguages, cfg.Subtitles.VariantPriority)
			output, embedded, err := muxer.Embed(cmd.Context(), mediaPath, tracks)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d track(s) into %s\n", len(embedded), output)
			for _, track := range embedded {
				tag := language.TrackTag(track, cfg.Download.SubtitleLanguages)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", filepath.Base(track), language.TagDisplay(tag))
			}
			return nil
		},
	}
	return cmd
}
