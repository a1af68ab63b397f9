package backend

// Config holds global backend defaults. Per-provider settings live in the
// provider's JSON config blob.
type Config struct {
	// DefaultLocalRoot is the directory used when a default local
	// provider has to be created.
	DefaultLocalRoot string `mapstructure:"default_local_root" default:"./media"`
	// PickerTimeoutSeconds bounds remote picker fetches.
	PickerTimeoutSeconds int `mapstructure:"picker_timeout_seconds" default:"30"`
}
