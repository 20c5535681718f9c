package rules

// Default thresholds in bytes.
const (
	DefaultMaxChunkSize         int64 = 250 * 1024
	DefaultMaxModuleSize        int64 = 200 * 1024
	DefaultMinLazyLoadThreshold int64 = 100 * 1024
)

// Thresholds configures the size limits of the built-in rules.
type Thresholds struct {
	// MaxChunkSize is the vendor byte count an initial chunk may carry
	// before large-vendor-chunks reports it.
	MaxChunkSize int64

	// MaxModuleSize is the module size above which huge-modules reports.
	MaxModuleSize int64

	// MinLazyLoadThreshold is the initial chunk size above which
	// lazy-load-candidates reports an entry chunk.
	MinLazyLoadThreshold int64
}

// DefaultThresholds returns the default limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxChunkSize:         DefaultMaxChunkSize,
		MaxModuleSize:        DefaultMaxModuleSize,
		MinLazyLoadThreshold: DefaultMinLazyLoadThreshold,
	}
}

// withDefaults replaces non-positive limits with their defaults.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MaxChunkSize <= 0 {
		t.MaxChunkSize = d.MaxChunkSize
	}
	if t.MaxModuleSize <= 0 {
		t.MaxModuleSize = d.MaxModuleSize
	}
	if t.MinLazyLoadThreshold <= 0 {
		t.MinLazyLoadThreshold = d.MinLazyLoadThreshold
	}
	return t
}
