package config

const (
	defaultLibraryDir     = "~/videos/archive"
	defaultStagingDir     = "~/.local/share/recue/staging"
	defaultLogDir         = "~/.local/share/recue/logs"
	defaultCatalogDir     = "~/.local/share/recue"
	defaultRateLimitMB    = 6
	defaultMaxVideoHeight = 1080

	defaultMaxLineWidth    = 42
	defaultCommaBreakRatio = 0.8

	defaultPunctuateBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultPunctuateModel          = "google/gemini-3-flash-preview"
	defaultPunctuateTimeoutSeconds = 120

	defaultTranscribeModel          = "base"
	defaultTranscribeTimeoutSeconds = 3600

	defaultDownloadTimeoutSeconds = 7200
	defaultEmbedTimeoutSeconds    = 1800

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			CatalogDir: defaultCatalogDir,
		},
		Download: Download{
			RateLimitMB:       defaultRateLimitMB,
			MaxVideoHeight:    defaultMaxVideoHeight,
			SubtitleLanguages: []string{"en", "de"},
			ArchiveEnabled:    true,
			TimeoutSeconds:    defaultDownloadTimeoutSeconds,
		},
		Subtitles: Subtitles{
			MaxLineWidth:    defaultMaxLineWidth,
			CommaBreakRatio: defaultCommaBreakRatio,
			VariantPriority: []string{"non_iter", "iter", "dir_iter", "default"},
		},
		Punctuate: Punctuate{
			BaseURL:        defaultPunctuateBaseURL,
			Model:          defaultPunctuateModel,
			TimeoutSeconds: defaultPunctuateTimeoutSeconds,
		},
		Transcribe: Transcribe{
			Enabled:        true,
			Model:          defaultTranscribeModel,
			TimeoutSeconds: defaultTranscribeTimeoutSeconds,
		},
		Embed: Embed{
			Enabled:        true,
			TimeoutSeconds: defaultEmbedTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
