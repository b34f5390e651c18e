package bank

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/arloliu/ctpatch/compress"
	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/internal/logging"
	"github.com/arloliu/ctpatch/internal/options"
)

// Config holds the settings shared by Build and Archive.
type Config struct {
	packIndex   uint16
	workers     int
	compression format.CompressionType
	logger      *zap.Logger
}

// Option configures a bank operation.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		workers:     runtime.GOMAXPROCS(0),
		compression: format.CompressionZstd,
		logger:      zap.NewNop(),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithPackIndex sets the pack the built packets are stored into. Packs are
// numbered from zero. The default is pack 0.
func WithPackIndex(pack uint16) Option {
	return options.NoError(func(c *Config) {
		c.packIndex = pack
	})
}

// WithWorkers limits the number of patches encoded concurrently.
// The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		c.workers = n

		return nil
	})
}

// WithCompression sets the archive payload compression. The default is zstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logging.OrNop(l)
	})
}
