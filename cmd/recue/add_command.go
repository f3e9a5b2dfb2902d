package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/services/ytdlp"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var playlist bool

	cmd := &cobra.Command{
		Use:   "add <url> [url...]",
		Short: "Queue one or more video URLs for processing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				urls := make([]string, 0, len(args))
				for _, raw := range args {
					url := strings.TrimSpace(raw)
					if url == "" {
						continue
					}
					if playlist {
						downloader := ytdlp.NewService(cfg.Download)
						entries, info, err := downloader.ExpandPlaylist(cmd.Context(), url)
						if err != nil {
							return fmt.Errorf("expand playlist %s: %w", url, err)
						}
						label := info.Title
						if label == "" {
							label = info.ID
						}
						fmt.Fprintf(cmd.OutOrStdout(), "Playlist %s: %d entries\n", label, len(entries))
						urls = append(urls, entries...)
						continue
					}
					urls = append(urls, url)
				}
				if len(urls) == 0 {
					return fmt.Errorf("no URLs to add")
				}

				for _, url := range urls {
					item, err := store.NewItem(cmd.Context(), url)
					if err != nil {
						return fmt.Errorf("add %s: %w", url, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", item.ID, url)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&playlist, "playlist", false, "Expand each URL as a playlist and queue every entry")
	return cmd
}

func newAddFileCommand(ctx *commandContext) *cobra.Command {
	var track string

	cmd := &cobra.Command{
		Use:   "add-file <media-file>",
		Short: "Queue an already-downloaded media file for caption conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				mediaPath, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}

				sourceTrack := strings.TrimSpace(track)
				if sourceTrack == "" {
					tracks := ytdlp.SubtitleTracks(mediaPath, cfg.Download.SubtitleLanguages)
					if len(tracks) == 0 {
						return fmt.Errorf("no caption track found beside %s; pass one with --track", mediaPath)
					}
					sourceTrack = tracks[0]
				} else {
					sourceTrack, err = config.ExpandPath(sourceTrack)
					if err != nil {
						return err
					}
				}

				item, err := store.NewLocalItem(cmd.Context(), mediaPath, sourceTrack)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s (track %s)\n", item.ID, mediaPath, sourceTrack)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&track, "track", "", "Caption track to convert; defaults to the first language track beside the media file")
	return cmd
}
