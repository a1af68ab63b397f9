package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level that gets logged (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoder: console for development, json for production.
	Format string `mapstructure:"format" default:"console"`
}
