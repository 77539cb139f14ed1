// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".swd"

	// ConfigDirEnv overrides the directory holding DefaultDir.
	ConfigDirEnv = "SWD_CONFIG"

	// HistoryFile is the shell history file name inside DefaultDir.
	HistoryFile = "shell_history"
)
