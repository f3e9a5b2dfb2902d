package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"recue/internal/services/ytdlp"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url> [url...]",
		Short: "Download media and caption tracks into the staging directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			downloader := ytdlp.NewService(cfg.Download)
			archivePath := ""
			if cfg.Download.ArchiveEnabled {
				archivePath = filepath.Join(cfg.Paths.CatalogDir, ytdlp.ArchiveFileName)
			}

			for _, url := range args {
				before, err := ytdlp.FindDownloads(cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				seen := make(map[string]struct{}, len(before))
				for _, path := range before {
					seen[path] = struct{}{}
				}

				if err := downloader.Download(cmd.Context(), url, cfg.Paths.StagingDir, archivePath); err != nil {
					return fmt.Errorf("download %s: %w", url, err)
				}

				after, err := ytdlp.FindDownloads(cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				fresh := 0
				for _, path := range after {
					if _, ok := seen[path]; ok {
						continue
					}
					fresh++
					fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s\n", path)
					for _, track := range ytdlp.SubtitleTracks(path, cfg.Download.SubtitleLanguages) {
						fmt.Fprintf(cmd.OutOrStdout(), "  caption %s\n", filepath.Base(track))
					}
				}
				if fresh == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No new media for %s (already archived?)\n", url)
				}
			}
			return nil
		},
	}
	return cmd
}
