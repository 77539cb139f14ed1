package config

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents the ~/.swd/config.yaml file.
type Config struct {
	Version string       `yaml:"version"`
	Log     LogConfig    `yaml:"log"`
	Cache   CacheConfig  `yaml:"cache"`
	Output  OutputConfig `yaml:"output"`
	Shell   ShellConfig  `yaml:"shell"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level" env:"SWD_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"SWD_LOG_PRETTY"`
}

// CacheConfig sizes the model registry.
type CacheConfig struct {
	// Size is the number of loaded SWD models kept in memory.
	Size int `yaml:"size" env:"SWD_CACHE_SIZE"`
}

// OutputConfig sets the default output format of commands.
type OutputConfig struct {
	Format string `yaml:"format" env:"SWD_OUTPUT_FORMAT"`
}

// ShellConfig configures the interactive shell.
type ShellConfig struct {
	HistoryFile string `yaml:"history_file,omitempty" env:"SWD_HISTORY_FILE"`
}
