package config

const (
	defaultConfigPath       = "~/.config/convertaudiobook/config.toml"
	projectConfigName       = "convertaudiobook.toml"
	defaultLogDir           = "~/.local/share/convertaudiobook/logs"
	defaultStateDir         = "~/.local/state/convertaudiobook"
	defaultExtension        = "mp3"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Output: Output{
			Extension: defaultExtension,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
