package types

// ValidationConfig controls contract validation behavior
type ValidationConfig struct {
	// Security: Schema size limit
	MaxSchemaSize int // Max schema size in bytes (default: 256KB)

	// Performance: Caching
	EnableCache  bool // Enable validator caching (default: true)
	MaxCacheSize int  // Max cached validators (default: 256)

	// Format assertions (uri, cidr, semver, duration, ...)
	AssertFormat bool // Reject values that break a slot's format (default: true)
}

// DefaultValidationConfig returns the defaults used by runnable targets
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxSchemaSize: 256 * 1024,
		EnableCache:   true,
		MaxCacheSize:  256,
		AssertFormat:  true,
	}
}
