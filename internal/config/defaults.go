package config

const (
	defaultLogDir         = "~/.local/share/porthole/logs"
	defaultFilePattern    = "worker-{port}.log"
	defaultPollIntervalMS = 500
	defaultTimeoutSeconds = 30
	defaultTailLines      = 50
	defaultWindowTitle    = "porthole {target}"
	defaultColorMode      = "auto"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Watch: Watch{
			FilePattern:    defaultFilePattern,
			PollIntervalMS: defaultPollIntervalMS,
			TimeoutSeconds: defaultTimeoutSeconds,
			TailLines:      defaultTailLines,
		},
		Display: Display{
			WindowTitle: defaultWindowTitle,
			Banner:      true,
			Color:       defaultColorMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
