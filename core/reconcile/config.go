package reconcile

// Config holds configuration for case comparison.
type Config struct {
	// Workers bounds how many cases of a plan are compared concurrently.
	Workers int `mapstructure:"workers" default:"16"`
	// UseResultIDs selects the dual-sided lookup by default.
	UseResultIDs bool `mapstructure:"use_result_ids" default:"true"`
	// ConfigCacheTTLSeconds is how long a plan's comparison config is cached.
	ConfigCacheTTLSeconds int `mapstructure:"config_cache_ttl_seconds" default:"300"`
	// ErrorMessageStart and ErrorMessageEnd bound the kept window of fault messages.
	ErrorMessageStart int `mapstructure:"error_message_start" default:"0"`
	ErrorMessageEnd   int `mapstructure:"error_message_end" default:"1000"`
	// NameToLower compares field names case-insensitively.
	NameToLower bool `mapstructure:"name_to_lower" default:"true"`
	// NullEqualsEmpty treats null and empty values as equal.
	NullEqualsEmpty bool `mapstructure:"null_equals_empty" default:"true"`
}

// Options converts the configuration into engine options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.Global = GlobalOptions{
		NameToLower:     c.NameToLower,
		NullEqualsEmpty: c.NullEqualsEmpty,
	}
	opts.ErrorMessageStart = c.ErrorMessageStart
	if c.ErrorMessageEnd > 0 {
		opts.ErrorMessageEnd = c.ErrorMessageEnd
	}
	return opts
}
