package syncer

// Config holds engine-level settings.
type Config struct {
	// Parallel bounds how many providers SyncAll works on at once.
	Parallel int `mapstructure:"parallel" default:"2"`
}
