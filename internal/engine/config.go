package engine

// Default tuning values used when a Config is built without overrides.
const (
	DefaultBlockSize      = 400
	DefaultBufferPoolSize = 8
	DefaultLogFile        = "centauridb.log"
)

// Config holds the engine's startup parameters. Build one with
// NewConfig and zero or more Option functions.
type Config struct {
	Directory      string
	BlockSize      int
	BufferPoolSize int
	LogFile        string
}

// Option customizes a Config.
type Option func(*Config)

// WithBlockSize overrides the fixed page size, in bytes.
func WithBlockSize(n int) Option {
	return func(c *Config) { c.BlockSize = n }
}

// WithBufferPoolSize overrides the number of frames in the buffer pool.
func WithBufferPoolSize(n int) Option {
	return func(c *Config) { c.BufferPoolSize = n }
}

// WithLogFile overrides the name of the WAL file within the data directory.
func WithLogFile(name string) Option {
	return func(c *Config) { c.LogFile = name }
}

// NewConfig returns a Config for directory with the package defaults,
// modified by opts.
func NewConfig(directory string, opts ...Option) Config {
	c := Config{
		Directory:      directory,
		BlockSize:      DefaultBlockSize,
		BufferPoolSize: DefaultBufferPoolSize,
		LogFile:        DefaultLogFile,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
