package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"recue/internal/config"
	"recue/internal/services/whisper"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var lang string

	cmd := &cobra.Command{
		Use:   "transcribe <media-file>",
		Short: "Generate a caption track from the audio of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mediaPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			trackLang := strings.TrimSpace(lang)
			if trackLang == "" {
				trackLang = "en"
				if len(cfg.Download.SubtitleLanguages) > 0 {
					trackLang = cfg.Download.SubtitleLanguages[0]
				}
			}

			trackPath := strings.TrimSpace(output)
			if trackPath == "" {
				base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
				trackPath = base + "." + trackLang + ".vtt"
			} else if trackPath, err = config.ExpandPath(trackPath); err != nil {
				return err
			}

			transcriber := whisper.NewService(cfg.Transcribe)
			workDir := filepath.Join(cfg.Paths.StagingDir, "transcribe")
			if err := transcriber.GenerateTrack(cmd.Context(), mediaPath, trackPath, workDir, trackLang); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", trackPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Caption track path; defaults to the media file name with a language suffix")
	cmd.Flags().StringVar(&lang, "language", "", "Spoken language hint passed to the transcriber")
	return cmd
}
