package options

const (
	// Represents the minimum allowed region size in bytes (1MiB, enough for
	// a header, a bitmap, and a handful of extents for tests).
	MinRegionSize uint64 = 1 * 1024 * 1024

	// Represents the maximum allowed region size in bytes (128GiB), the
	// ceiling implied by the 31-bit index-node block index (2^31 * 64 bytes).
	MaxRegionSize uint64 = 128 * 1024 * 1024 * 1024

	// Specifies the default region size in bytes (64MiB).
	DefaultRegionSize uint64 = 64 * 1024 * 1024

	// Represents the minimum allowed extent size in bytes (must cover at
	// least one page).
	MinExtentSize uint64 = 4096

	// Specifies the default extent size in bytes (2MiB).
	DefaultExtentSize uint64 = 2 * 1024 * 1024

	// Default record length of 0 selects variable-length records.
	DefaultRecordLength uint32 = 0
)

// Holds the default configuration settings for an htrie engine instance.
var defaultOptions = Options{
	RegionSize:   DefaultRegionSize,
	ExtentSize:   DefaultExtentSize,
	RecordLength: DefaultRecordLength,
}

func NewDefaultOptions() Options {
	return defaultOptions
}
