package config

const (
	defaultServerURL            = "http://127.0.0.1:5000"
	defaultRequestTimeout       = 30
	defaultUploadTimeout        = 600
	defaultLanguage             = "ar"
	defaultMaxUploadMiB         = 100
	defaultInitialIntervalMS    = 2000
	defaultMidIntervalMS        = 3000
	defaultSlowIntervalMS       = 5000
	defaultMidAfterTicks        = 5
	defaultSlowAfterTicks       = 10
	defaultMaxTicks             = 300
	defaultMaxConsecutiveErrors = 10
	defaultStallTicks           = 15
	defaultStallProgressCeiling = 70
	defaultOutputDir            = "."
	defaultLocale               = "en"
	defaultStateDir             = "~/.local/share/vidsub"
	defaultLogDir               = "~/.local/share/vidsub/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultServerURL,
			RequestTimeout: defaultRequestTimeout,
			UploadTimeout:  defaultUploadTimeout,
		},
		Submission: Submission{
			DefaultLanguage: defaultLanguage,
			MaxUploadMiB:    defaultMaxUploadMiB,
		},
		Polling: Polling{
			InitialIntervalMS:    defaultInitialIntervalMS,
			MidIntervalMS:        defaultMidIntervalMS,
			SlowIntervalMS:       defaultSlowIntervalMS,
			MidAfterTicks:        defaultMidAfterTicks,
			SlowAfterTicks:       defaultSlowAfterTicks,
			MaxTicks:             defaultMaxTicks,
			MaxConsecutiveErrors: defaultMaxConsecutiveErrors,
			StallTicks:           defaultStallTicks,
			StallProgressCeiling: defaultStallProgressCeiling,
		},
		Output: Output{
			Dir:      defaultOutputDir,
			AutoSave: true,
		},
		UI: UI{
			Locale: defaultLocale,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
