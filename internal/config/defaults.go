package config

const (
	defaultConfigPath         = "~/.config/cuesplit/config.toml"
	envFileName               = ".env"
	defaultLogDir             = "~/.local/share/cuesplit/logs"
	defaultStateDir           = "~/.local/share/cuesplit"
	defaultCharset            = "windows-1252"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultCodec              = "flac"
	defaultWatchSettleSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultExtractTimeout     = 0
	defaultHistoryEnabled     = true
	defaultLockOutputDir      = true
	defaultProbeSources       = false
	defaultOverwriteExisting  = false
	defaultReencode           = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Cue: Cue{
			Charset: defaultCharset,
		},
		Extract: Extract{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			Reencode:       defaultReencode,
			Codec:          defaultCodec,
			Overwrite:      defaultOverwriteExisting,
			ProbeSources:   defaultProbeSources,
			LockOutputDir:  defaultLockOutputDir,
			TimeoutSeconds: defaultExtractTimeout,
		},
		Watch: Watch{
			SettleSeconds: defaultWatchSettleSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
