package slidemap

// mapOptions holds configuration for a mapping run.
type mapOptions struct {
	disableSuppression bool
}

// defaultOptions returns the default mapping options.
func defaultOptions() mapOptions {
	return mapOptions{}
}
